// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package baseline

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/models"
)

var trainingNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestLearner() *Learner {
	l := NewLearner(config.Default().Baseline)
	l.now = func() time.Time { return trainingNow }
	return l
}

// weekdayHistory builds n closed events on consecutive weekdays, checking in
// around 09:00 at the office, 8 hour shifts, one device, one geofence,
// walking to work.
func weekdayHistory(n int) []*models.AttendanceEvent {
	var events []*models.AttendanceEvent
	day := trainingNow.AddDate(0, 0, -1)
	for len(events) < n {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			day = day.AddDate(0, 0, -1)
			continue
		}
		checkIn := time.Date(day.Year(), day.Month(), day.Day(), 9, len(events)%10, 0, 0, time.UTC)
		checkOut := checkIn.Add(8 * time.Hour)
		events = append(events, &models.AttendanceEvent{
			ID:             "evt",
			SubjectID:      "subj-1",
			CheckInAt:      checkIn,
			CheckOutAt:     &checkOut,
			StartLatitude:  52.5200 + float64(len(events)%3)*0.0001,
			StartLongitude: 13.4050,
			AccuracyM:      10,
			DeviceID:       "device-a",
			GeofenceID:     "fence-hq",
			TransportModes: []models.TransportMode{models.TransportModeWalking},
			WorkDate:       checkIn,
		})
		day = day.AddDate(0, 0, -1)
	}
	return events
}

func TestTrainInsufficientData(t *testing.T) {
	l := newTestLearner()

	_, err := l.Train("subj-1", weekdayHistory(29), nil, false)
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Train() error = %v, want *InsufficientDataError", err)
	}
	if insufficient.Observed != 29 || insufficient.Required != 30 {
		t.Errorf("observed/required = %d/%d, want 29/30", insufficient.Observed, insufficient.Required)
	}
}

func TestTrainAtMinimum(t *testing.T) {
	l := newTestLearner()

	profile, err := l.Train("subj-1", weekdayHistory(30), nil, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if !profile.IsSufficient {
		t.Error("profile not marked sufficient at exactly the minimum")
	}
	if profile.TrainingRecordCount != 30 {
		t.Errorf("TrainingRecordCount = %d, want 30", profile.TrainingRecordCount)
	}
	if profile.TypicalCheckInHour != 9 {
		t.Errorf("TypicalCheckInHour = %d, want 9", profile.TypicalCheckInHour)
	}
	if profile.TypicalDurationHours < 7.9 || profile.TypicalDurationHours > 8.1 {
		t.Errorf("TypicalDurationHours = %v, want ~8", profile.TypicalDurationHours)
	}
	if len(profile.TypicalLocations) != 1 {
		t.Fatalf("TypicalLocations = %v, want one cluster", profile.TypicalLocations)
	}
	if profile.TypicalLocations[0].Frequency != 30 {
		t.Errorf("cluster frequency = %d, want 30", profile.TypicalLocations[0].Frequency)
	}
	if !profile.RecognizesDevice("device-a") {
		t.Error("training device not recognized")
	}
	if !profile.RecognizesGeofence("fence-hq") {
		t.Error("training geofence not recognized")
	}
	if !profile.IsTypicalTransportMode(models.TransportModeWalking) {
		t.Error("walking not learned as typical transport")
	}
	if profile.IsTypicalWorkday(6) || profile.IsTypicalWorkday(7) {
		t.Error("weekend learned as typical for a weekday-only history")
	}
	if !profile.IsTypicalWorkday(1) {
		t.Error("monday missing from typical workdays")
	}
	if profile.AnomalyScoreThreshold != 0.7 || profile.AutoBlockThreshold != 0.9 {
		t.Errorf("thresholds = %v/%v, want 0.7/0.9", profile.AnomalyScoreThreshold, profile.AutoBlockThreshold)
	}
}

func TestTrainIgnoresEventsOutsideLookback(t *testing.T) {
	l := newTestLearner()

	history := weekdayHistory(20)
	// 15 more events far older than the 90-day lookback.
	for i := 0; i < 15; i++ {
		checkIn := trainingNow.AddDate(0, 0, -120-i)
		history = append(history, &models.AttendanceEvent{
			SubjectID:      "subj-1",
			CheckInAt:      checkIn,
			StartLatitude:  52.52,
			StartLongitude: 13.405,
		})
	}

	_, err := l.Train("subj-1", history, nil, false)
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Train() error = %v, want *InsufficientDataError", err)
	}
	if insufficient.Observed != 20 {
		t.Errorf("observed = %d, want 20 (stale events must not count)", insufficient.Observed)
	}
}

func TestTrainSkipsFreshProfile(t *testing.T) {
	l := newTestLearner()

	existing := &models.BehaviorProfile{
		SubjectID:          "subj-1",
		IsSufficient:       true,
		TypicalCheckInHour: 14,
		UpdatedAt:          trainingNow.Add(-24 * time.Hour),
	}

	profile, err := l.Train("subj-1", weekdayHistory(30), existing, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if profile != existing {
		t.Error("fresh sufficient profile was retrained without force")
	}

	retrained, err := l.Train("subj-1", weekdayHistory(30), existing, true)
	if err != nil {
		t.Fatalf("forced Train() error = %v", err)
	}
	if retrained == existing || retrained.TypicalCheckInHour != 9 {
		t.Error("forceRetrain did not rebuild the profile")
	}
}

func TestTrainPreservesCountersAndOverrides(t *testing.T) {
	l := newTestLearner()

	created := trainingNow.AddDate(0, -6, 0)
	existing := &models.BehaviorProfile{
		SubjectID:             "subj-1",
		IsSufficient:          true,
		CreatedAt:             created,
		UpdatedAt:             trainingNow.AddDate(0, 0, -45), // stale
		TotalCheckIns:         412,
		AnomaliesDetected:     7,
		FalsePositives:        2,
		AnomalyScoreThreshold: 0.55,
	}

	profile, err := l.Train("subj-1", weekdayHistory(30), existing, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if profile == existing {
		t.Fatal("stale profile was not retrained")
	}
	if !profile.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want preserved %v", profile.CreatedAt, created)
	}
	if profile.TotalCheckIns != 412 || profile.AnomaliesDetected != 7 || profile.FalsePositives != 2 {
		t.Error("running counters not preserved across retrain")
	}
	if profile.AnomalyScoreThreshold != 0.55 {
		t.Errorf("AnomalyScoreThreshold = %v, want preserved 0.55", profile.AnomalyScoreThreshold)
	}
	if profile.AutoBlockThreshold != 0.9 {
		t.Errorf("AutoBlockThreshold = %v, want default 0.9", profile.AutoBlockThreshold)
	}
}

func TestUpdateIncremental(t *testing.T) {
	l := newTestLearner()

	profile, err := l.Train("subj-1", weekdayHistory(30), nil, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	checkIn := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	event := &models.AttendanceEvent{
		SubjectID:      "subj-1",
		CheckInAt:      checkIn,
		StartLatitude:  52.5201,
		StartLongitude: 13.4050,
		DeviceID:       "device-b",
	}

	before := profile.TypicalCheckInHour
	if err := l.UpdateIncremental(profile, event); err != nil {
		t.Fatalf("UpdateIncremental() error = %v", err)
	}

	// EMA with alpha 0.1: 0.9*9 + 0.1*19 = 10.
	if profile.TypicalCheckInHour != 10 {
		t.Errorf("TypicalCheckInHour = %d (was %d), want 10 after EMA", profile.TypicalCheckInHour, before)
	}
	if !profile.RecognizesDevice("device-b") {
		t.Error("new device not appended")
	}
	if len(profile.TypicalLocations) != 1 {
		t.Errorf("known location spawned a new cluster: %v", profile.TypicalLocations)
	}
	if profile.TypicalLocations[0].Frequency != 31 {
		t.Errorf("cluster frequency = %d, want 31", profile.TypicalLocations[0].Frequency)
	}
	if profile.TotalCheckIns != 1 {
		t.Errorf("TotalCheckIns = %d, want 1", profile.TotalCheckIns)
	}
}

func TestUpdateIncrementalDeviceCap(t *testing.T) {
	l := newTestLearner()

	profile, err := l.Train("subj-1", weekdayHistory(30), nil, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		event := &models.AttendanceEvent{
			SubjectID:      "subj-1",
			CheckInAt:      trainingNow,
			StartLatitude:  52.52,
			StartLongitude: 13.405,
			DeviceID:       string(rune('b' + i)),
		}
		if err := l.UpdateIncremental(profile, event); err != nil {
			t.Fatalf("UpdateIncremental() error = %v", err)
		}
	}

	if got := len(profile.TypicalDeviceIDs); got > l.config.MaxDevices {
		t.Errorf("device list grew to %d, cap is %d", got, l.config.MaxDevices)
	}
}

func TestUpdateIncrementalRequiresSufficientProfile(t *testing.T) {
	l := newTestLearner()

	err := l.UpdateIncremental(&models.BehaviorProfile{SubjectID: "subj-1"}, &models.AttendanceEvent{})
	if !errors.Is(err, ErrProfileNotSufficient) {
		t.Errorf("error = %v, want ErrProfileNotSufficient", err)
	}
	if err := l.UpdateIncremental(nil, &models.AttendanceEvent{}); !errors.Is(err, ErrProfileNotSufficient) {
		t.Errorf("nil profile error = %v, want ErrProfileNotSufficient", err)
	}
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()

	var mu sync.Mutex
	counters := map[string]int{}
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "subject-" + string(rune('a'+i%3))
			unlock := km.Lock(key)
			defer unlock()

			mu.Lock()
			counters[key]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range counters {
		total += n
	}
	if total != 50 {
		t.Errorf("total increments = %d, want 50", total)
	}
}

func TestStatsHelpers(t *testing.T) {
	if got := modeInt([]int{9, 9, 10, 8, 9}); got != 9 {
		t.Errorf("modeInt = %d, want 9", got)
	}
	if got := modeInt([]int{3, 5}); got != 3 {
		t.Errorf("modeInt tie = %d, want smallest value 3", got)
	}
	if got := modeInt(nil); got != 0 {
		t.Errorf("modeInt(nil) = %d, want 0", got)
	}
	if got := mean([]float64{2, 4, 6}); got != 4 {
		t.Errorf("mean = %v, want 4", got)
	}
	if got := stddev([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("stddev of constant series = %v, want 0", got)
	}
	if got := stddev([]float64{2, 4}); got != 1 {
		t.Errorf("stddev = %v, want 1", got)
	}
}
