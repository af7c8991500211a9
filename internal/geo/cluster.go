// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

// Cluster is a group of points within a proximity radius of its seed,
// summarized by the centroid of its members.
type Cluster struct {
	Centroid Coordinate
	Count    int
}

// ClusterByProximity groups points with greedy single-pass clustering: the
// first unclustered point seeds a cluster, every remaining unclustered
// point within radiusKm of the seed is absorbed, then the next unclustered
// point seeds the next cluster. Deterministic for a given input order.
//
// This is not k-means; it trades optimality for a single O(n*k) pass,
// which is plenty for the ~hundreds of check-in locations a baseline
// training run sees.
func ClusterByProximity(points []Coordinate, radiusKm float64) []Cluster {
	if len(points) == 0 || radiusKm <= 0 {
		return nil
	}

	clustered := make([]bool, len(points))
	var clusters []Cluster

	for i := range points {
		if clustered[i] {
			continue
		}
		seed := points[i]
		clustered[i] = true

		sumLat, sumLon := seed.Lat, seed.Lon
		count := 1
		for j := i + 1; j < len(points); j++ {
			if clustered[j] {
				continue
			}
			if DistanceKm(seed, points[j]) <= radiusKm {
				clustered[j] = true
				sumLat += points[j].Lat
				sumLon += points[j].Lon
				count++
			}
		}

		clusters = append(clusters, Cluster{
			Centroid: Coordinate{Lat: sumLat / float64(count), Lon: sumLon / float64(count)},
			Count:    count,
		})
	}

	return clusters
}
