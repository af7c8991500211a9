// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package baseline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/geo"
	"github.com/clockguard/trustengine/internal/logging"
	"github.com/clockguard/trustengine/internal/metrics"
	"github.com/clockguard/trustengine/internal/models"
)

// InsufficientDataError is returned when a subject's history has too few
// events inside the lookback window to train a trustworthy baseline.
type InsufficientDataError struct {
	SubjectID string
	Observed  int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data for subject %s: %d events observed, %d required",
		e.SubjectID, e.Observed, e.Required)
}

// ErrProfileNotSufficient is returned by UpdateIncremental when the profile
// has not yet reached the training minimum. Callers should retrain instead.
var ErrProfileNotSufficient = fmt.Errorf("profile has not reached the training minimum; retrain from history")

// Learner trains behavior profiles from attendance history.
type Learner struct {
	config config.BaselineConfig

	// now is swapped in tests for deterministic lookback windows.
	now func() time.Time
}

// NewLearner creates a Learner with the given configuration.
func NewLearner(cfg config.BaselineConfig) *Learner {
	return &Learner{config: cfg, now: time.Now}
}

// Train builds a profile for subjectID from its attendance history.
//
// Only events checked in within the lookback window count. Fewer than the
// minimum training records returns an *InsufficientDataError carrying the
// observed count; any existing profile is left untouched in that case.
//
// When existing is non-nil, fresh, and already sufficient, Train returns it
// unchanged unless forceRetrain is set. A full retrain preserves the
// existing profile's creation time, running counters, and per-subject
// threshold overrides.
func (l *Learner) Train(subjectID string, history []*models.AttendanceEvent, existing *models.BehaviorProfile, forceRetrain bool) (*models.BehaviorProfile, error) {
	now := l.now()

	if existing != nil && existing.IsSufficient && !forceRetrain &&
		!existing.StaleAfter(now, l.config.StaleAfter) {
		return existing, nil
	}

	start := now
	events := l.windowedEvents(history, now)

	if len(events) < l.config.MinTrainingRecords {
		metrics.RecordTraining("insufficient_data", time.Since(start))
		logging.Debug().
			Str("subject_id", subjectID).
			Int("observed", len(events)).
			Int("required", l.config.MinTrainingRecords).
			Msg("Baseline training skipped: insufficient data")
		return nil, &InsufficientDataError{
			SubjectID: subjectID,
			Observed:  len(events),
			Required:  l.config.MinTrainingRecords,
		}
	}

	profile := &models.BehaviorProfile{
		SubjectID:           subjectID,
		TrainingRecordCount: len(events),
		IsSufficient:        true,
		CreatedAt:           now,
		UpdatedAt:           now,

		AnomalyScoreThreshold: l.config.DefaultAnomalyScoreThreshold,
		AutoBlockThreshold:    l.config.DefaultAutoBlockThreshold,
	}
	if existing != nil {
		profile.CreatedAt = existing.CreatedAt
		profile.TotalCheckIns = existing.TotalCheckIns
		profile.AnomaliesDetected = existing.AnomaliesDetected
		profile.FalsePositives = existing.FalsePositives
		if existing.AnomalyScoreThreshold > 0 {
			profile.AnomalyScoreThreshold = existing.AnomalyScoreThreshold
		}
		if existing.AutoBlockThreshold > 0 {
			profile.AutoBlockThreshold = existing.AutoBlockThreshold
		}
	}

	l.trainTemporal(profile, events)
	l.trainLocations(profile, events)
	l.trainGeofences(profile, events)
	l.trainDevices(profile, events)
	l.trainWorkdays(profile, events)
	l.trainTransportModes(profile, events)

	metrics.RecordTraining("trained", time.Since(start))
	logging.Info().
		Str("subject_id", subjectID).
		Int("training_records", len(events)).
		Int("location_clusters", len(profile.TypicalLocations)).
		Int("devices", len(profile.TypicalDeviceIDs)).
		Msg("Baseline profile trained")

	return profile, nil
}

// UpdateIncremental folds one new event into an already-sufficient profile
// without a full retrain: an exponential moving average nudges the typical
// check-in time, and unseen locations and devices are appended up to the
// configured caps. Workdays and transport modes only change on full
// retrains; a single event says nothing about coverage.
//
// A nil or insufficient profile returns ErrProfileNotSufficient. The
// learner holds no event history, so the fall back to full training is the
// caller's: on that error, load the subject's history and call Train.
func (l *Learner) UpdateIncremental(profile *models.BehaviorProfile, event *models.AttendanceEvent) error {
	if profile == nil || !profile.IsSufficient {
		return ErrProfileNotSufficient
	}

	alpha := l.config.EMAAlpha

	hour := float64(event.CheckInAt.Hour())
	minute := float64(event.CheckInAt.Minute())
	profile.TypicalCheckInHour = int(math.Round((1-alpha)*float64(profile.TypicalCheckInHour) + alpha*hour))
	profile.TypicalCheckInMinute = int(math.Round((1-alpha)*float64(profile.TypicalCheckInMinute) + alpha*minute))

	if event.HasCheckOut() {
		duration := event.CheckOutAt.Sub(event.CheckInAt).Hours()
		if duration > 0 {
			profile.TypicalDurationHours = (1-alpha)*profile.TypicalDurationHours + alpha*duration
		}
	}

	point := geo.Coordinate{Lat: event.StartLatitude, Lon: event.StartLongitude}
	if idx := l.nearestCluster(profile.TypicalLocations, point); idx >= 0 {
		profile.TypicalLocations[idx].Frequency++
	} else if geo.InBounds(point.Lat, point.Lon) && !geo.IsNullIsland(point.Lat, point.Lon) &&
		len(profile.TypicalLocations) < l.config.MaxLocationClusters {
		profile.TypicalLocations = append(profile.TypicalLocations, models.LocationCluster{
			Latitude:  point.Lat,
			Longitude: point.Lon,
			Frequency: 1,
		})
	}

	if event.DeviceID != "" && !profile.RecognizesDevice(event.DeviceID) &&
		len(profile.TypicalDeviceIDs) < l.config.MaxDevices {
		profile.TypicalDeviceIDs = append(profile.TypicalDeviceIDs, event.DeviceID)
	}

	if event.GeofenceID != "" && !profile.RecognizesGeofence(event.GeofenceID) &&
		len(profile.TypicalGeofenceIDs) < l.config.MaxGeofences {
		profile.TypicalGeofenceIDs = append(profile.TypicalGeofenceIDs, event.GeofenceID)
	}

	profile.TotalCheckIns++
	profile.UpdatedAt = l.now()
	return nil
}

// windowedEvents filters history to events checked in inside the lookback
// window, dropping records with unusable coordinates.
func (l *Learner) windowedEvents(history []*models.AttendanceEvent, now time.Time) []*models.AttendanceEvent {
	cutoff := now.AddDate(0, 0, -l.config.LookbackDays)
	events := make([]*models.AttendanceEvent, 0, len(history))
	for _, e := range history {
		if e == nil || e.CheckInAt.Before(cutoff) || e.CheckInAt.After(now) {
			continue
		}
		events = append(events, e)
	}
	return events
}

func (l *Learner) trainTemporal(profile *models.BehaviorProfile, events []*models.AttendanceEvent) {
	hours := make([]int, 0, len(events))
	hoursF := make([]float64, 0, len(events))
	minutes := make([]float64, 0, len(events))
	var outHours []int
	var durations []float64

	for _, e := range events {
		hours = append(hours, e.CheckInAt.Hour())
		hoursF = append(hoursF, float64(e.CheckInAt.Hour()))
		minutes = append(minutes, float64(e.CheckInAt.Minute()))

		if e.HasCheckOut() {
			outHours = append(outHours, e.CheckOutAt.Hour())
			if d := e.CheckOutAt.Sub(e.CheckInAt).Hours(); d > 0 {
				durations = append(durations, d)
			}
		} else if e.DurationHours > 0 {
			durations = append(durations, e.DurationHours)
		}
	}

	profile.TypicalCheckInHour = modeInt(hours)
	profile.TypicalCheckInMinute = int(math.Round(mean(minutes)))
	profile.CheckInVarianceMin = stddev(hoursF) * 60
	profile.TypicalCheckOutHour = modeInt(outHours)
	profile.TypicalDurationHours = mean(durations)
	profile.DurationVarianceHours = stddev(durations)
}

func (l *Learner) trainLocations(profile *models.BehaviorProfile, events []*models.AttendanceEvent) {
	points := make([]geo.Coordinate, 0, len(events))
	for _, e := range events {
		if geo.IsNullIsland(e.StartLatitude, e.StartLongitude) ||
			!geo.InBounds(e.StartLatitude, e.StartLongitude) {
			continue
		}
		points = append(points, geo.Coordinate{Lat: e.StartLatitude, Lon: e.StartLongitude})
	}

	clusters := geo.ClusterByProximity(points, l.config.ClusterRadiusKm)
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	if len(clusters) > l.config.MaxLocationClusters {
		clusters = clusters[:l.config.MaxLocationClusters]
	}

	profile.TypicalLocations = make([]models.LocationCluster, 0, len(clusters))
	for _, c := range clusters {
		profile.TypicalLocations = append(profile.TypicalLocations, models.LocationCluster{
			Latitude:  c.Centroid.Lat,
			Longitude: c.Centroid.Lon,
			Frequency: c.Count,
		})
	}
}

func (l *Learner) trainGeofences(profile *models.BehaviorProfile, events []*models.AttendanceEvent) {
	counts := make(map[string]int)
	for _, e := range events {
		if e.GeofenceID != "" {
			counts[e.GeofenceID]++
		}
	}
	profile.TypicalGeofenceIDs = topKeys(counts, l.config.MaxGeofences, 1)
}

func (l *Learner) trainDevices(profile *models.BehaviorProfile, events []*models.AttendanceEvent) {
	counts := make(map[string]int)
	for _, e := range events {
		if e.DeviceID != "" {
			counts[e.DeviceID]++
		}
	}
	profile.TypicalDeviceIDs = topKeys(counts, l.config.MaxDevices, l.config.MinDeviceOccurrences)
}

func (l *Learner) trainWorkdays(profile *models.BehaviorProfile, events []*models.AttendanceEvent) {
	counts := make(map[int]int)
	for _, e := range events {
		counts[e.ISOWeekday()]++
	}
	threshold := l.config.WeekdayCoverage * float64(len(events))

	var workdays []int
	for day := 1; day <= 7; day++ {
		if float64(counts[day]) >= threshold && counts[day] > 0 {
			workdays = append(workdays, day)
		}
	}
	profile.TypicalWorkdays = workdays
}

func (l *Learner) trainTransportModes(profile *models.BehaviorProfile, events []*models.AttendanceEvent) {
	counts := make(map[models.TransportMode]int)
	for _, e := range events {
		seen := make(map[models.TransportMode]bool)
		for _, m := range e.TransportModes {
			if m == models.TransportModeNone || seen[m] {
				continue
			}
			seen[m] = true
			counts[m]++
		}
	}
	threshold := l.config.TransportCoverage * float64(len(events))

	modes := make([]models.TransportMode, 0, len(counts))
	for m, n := range counts {
		if float64(n) >= threshold {
			modes = append(modes, m)
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	profile.TypicalTransportModes = modes
}

// nearestCluster returns the index of the first typical location within the
// cluster radius of point, -1 when none is close enough.
func (l *Learner) nearestCluster(clusters []models.LocationCluster, point geo.Coordinate) int {
	for i, c := range clusters {
		center := geo.Coordinate{Lat: c.Latitude, Lon: c.Longitude}
		if geo.DistanceKm(center, point) <= l.config.ClusterRadiusKm {
			return i
		}
	}
	return -1
}

// topKeys returns up to max keys with at least minCount occurrences, most
// frequent first. Ties break lexicographically for determinism.
func topKeys(counts map[string]int, max, minCount int) []string {
	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		if n >= minCount {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > max {
		keys = keys[:max]
	}
	return keys
}
