// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import (
	"math"
	"testing"
)

func TestClusterByProximity(t *testing.T) {
	office := Coordinate{Lat: 52.5200, Lon: 13.4050}
	warehouse := Coordinate{Lat: 52.5400, Lon: 13.4300}

	// 20 points jittered within ~20 m of the office, 5 near the warehouse.
	var points []Coordinate
	for i := 0; i < 20; i++ {
		points = append(points, Coordinate{
			Lat: office.Lat + float64(i%5)*0.00004,
			Lon: office.Lon + float64(i%4)*0.00004,
		})
	}
	for i := 0; i < 5; i++ {
		points = append(points, Coordinate{
			Lat: warehouse.Lat + float64(i)*0.00004,
			Lon: warehouse.Lon,
		})
	}

	clusters := ClusterByProximity(points, 0.1)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if clusters[0].Count != 20 || clusters[1].Count != 5 {
		t.Errorf("cluster counts = [%d %d], want [20 5]", clusters[0].Count, clusters[1].Count)
	}
	if d := DistanceKm(clusters[0].Centroid, office); d > 0.05 {
		t.Errorf("first centroid %v is %.3f km from the office", clusters[0].Centroid, d)
	}
	if d := DistanceKm(clusters[1].Centroid, warehouse); d > 0.05 {
		t.Errorf("second centroid %v is %.3f km from the warehouse", clusters[1].Centroid, d)
	}
}

func TestClusterByProximitySinglePoints(t *testing.T) {
	points := []Coordinate{
		{Lat: 10, Lon: 10},
		{Lat: 20, Lon: 20},
		{Lat: 30, Lon: 30},
	}
	clusters := ClusterByProximity(points, 0.1)
	if len(clusters) != 3 {
		t.Fatalf("got %d clusters, want 3", len(clusters))
	}
	for i, c := range clusters {
		if c.Count != 1 {
			t.Errorf("cluster %d count = %d, want 1", i, c.Count)
		}
		if math.Abs(c.Centroid.Lat-points[i].Lat) > 1e-9 {
			t.Errorf("cluster %d centroid = %v, want %v", i, c.Centroid, points[i])
		}
	}
}

func TestClusterByProximityEmpty(t *testing.T) {
	if got := ClusterByProximity(nil, 0.1); got != nil {
		t.Errorf("ClusterByProximity(nil) = %v, want nil", got)
	}
	if got := ClusterByProximity([]Coordinate{{Lat: 1, Lon: 1}}, 0); got != nil {
		t.Errorf("ClusterByProximity with zero radius = %v, want nil", got)
	}
}
