// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/models"
)

// mockDeviceActivity is a hand-rolled DeviceActivity for tests. err fails
// every lookup; recentErr fails only RecentDeviceIDs.
type mockDeviceActivity struct {
	otherSubjects []string
	recentDevices []string
	distinctCount int
	err           error
	recentErr     error
}

func (m *mockDeviceActivity) SubjectsUsingDevice(_ context.Context, _, _ string, _, _ time.Time) ([]string, error) {
	return m.otherSubjects, m.err
}

func (m *mockDeviceActivity) RecentDeviceIDs(_ context.Context, _ string, _ time.Time, limit int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if len(m.recentDevices) > limit {
		return m.recentDevices[:limit], nil
	}
	return m.recentDevices, nil
}

func (m *mockDeviceActivity) DistinctDeviceCount(_ context.Context, _ string, _, _ time.Time) (int, error) {
	return m.distinctCount, m.err
}

func deviceEvent() *models.AttendanceEvent {
	e := testEvent(testMonday)
	e.DeviceID = "device-a"
	return e
}

func TestDeviceDetectorSharing(t *testing.T) {
	d := NewDeviceDetector(config.Default().Device)

	tests := []struct {
		name   string
		others []string
		want   bool
	}{
		{name: "no other subjects", others: nil, want: false},
		{name: "one other subject", others: []string{"subj-2"}, want: true},
		{name: "several other subjects", others: []string{"subj-2", "subj-3"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &mockDeviceActivity{otherSubjects: tt.others, distinctCount: 1}
			res, err := d.Detect(context.Background(), &Input{Event: deviceEvent(), Devices: activity})
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}

			f := findingOfType(res.Findings, models.FindingDeviceSharing)
			if (f != nil) != tt.want {
				t.Fatalf("device_sharing present = %v, want %v", f != nil, tt.want)
			}
			if f != nil {
				if f.Severity != models.SeverityCritical {
					t.Errorf("severity = %v, want critical", f.Severity)
				}
				if len(f.Metadata) == 0 {
					t.Error("device_sharing finding has no metadata")
				}
				if res.Score < 0.9 {
					t.Errorf("score = %v, want >= 0.9", res.Score)
				}
			}
		})
	}
}

func TestDeviceDetectorRapidSwitching(t *testing.T) {
	d := NewDeviceDetector(config.Default().Device)

	tests := []struct {
		name   string
		recent []string
		want   bool
	}{
		{name: "stable single device", recent: []string{"device-a", "device-a", "device-a", "device-a"}, want: false},
		{name: "three distinct is under the limit", recent: []string{"device-b", "device-c", "device-a", "device-a"}, want: false},
		{name: "four distinct devices", recent: []string{"device-b", "device-c", "device-d", "device-b"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &mockDeviceActivity{recentDevices: tt.recent, distinctCount: 1}
			res, err := d.Detect(context.Background(), &Input{Event: deviceEvent(), Devices: activity})
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			got := findingOfType(res.Findings, models.FindingRapidSwitching) != nil
			if got != tt.want {
				t.Errorf("rapid_device_switching = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeviceDetectorExcessiveDevices(t *testing.T) {
	d := NewDeviceDetector(config.Default().Device)

	tests := []struct {
		name     string
		distinct int
		want     bool
	}{
		{name: "one device", distinct: 1, want: false},
		{name: "at the limit", distinct: 3, want: false},
		{name: "over the limit", distinct: 4, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &mockDeviceActivity{distinctCount: tt.distinct}
			res, err := d.Detect(context.Background(), &Input{Event: deviceEvent(), Devices: activity})
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			got := findingOfType(res.Findings, models.FindingExcessiveDevice) != nil
			if got != tt.want {
				t.Errorf("excessive_device_count with %d devices = %v, want %v", tt.distinct, got, tt.want)
			}
		})
	}
}

func TestDeviceDetectorNeutralCases(t *testing.T) {
	d := NewDeviceDetector(config.Default().Device)

	t.Run("no activity view", func(t *testing.T) {
		res, err := d.Detect(context.Background(), &Input{Event: deviceEvent()})
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if res.Score != 0 || len(res.Findings) != 0 {
			t.Errorf("score=%v findings=%v, want neutral", res.Score, res.Findings)
		}
	})

	t.Run("no device fingerprint", func(t *testing.T) {
		event := testEvent(testMonday)
		activity := &mockDeviceActivity{otherSubjects: []string{"subj-2"}}
		res, err := d.Detect(context.Background(), &Input{Event: event, Devices: activity})
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if res.Score != 0 || len(res.Findings) != 0 {
			t.Errorf("score=%v findings=%v, want neutral without a device ID", res.Score, res.Findings)
		}
	})
}

func TestDeviceDetectorPropagatesLookupErrors(t *testing.T) {
	d := NewDeviceDetector(config.Default().Device)
	activity := &mockDeviceActivity{err: errors.New("store offline")}

	_, err := d.Detect(context.Background(), &Input{Event: deviceEvent(), Devices: activity})
	if err == nil {
		t.Fatal("Detect() swallowed a lookup error")
	}
}

func TestDeviceDetectorKeepsSharingHitWhenLaterLookupFails(t *testing.T) {
	d := NewDeviceDetector(config.Default().Device)

	// The sharing lookup confirms buddy punching, then the recent-devices
	// lookup fails. The confirmed hit must survive alongside the error.
	activity := &mockDeviceActivity{
		otherSubjects: []string{"subj-2"},
		recentErr:     errors.New("store hiccup"),
	}

	res, err := d.Detect(context.Background(), &Input{Event: deviceEvent(), Devices: activity})
	if err == nil {
		t.Fatal("Detect() swallowed the recent device lookup error")
	}
	if res == nil {
		t.Fatal("Detect() dropped the partial result on a later lookup failure")
	}
	f := findingOfType(res.Findings, models.FindingDeviceSharing)
	if f == nil {
		t.Fatal("device_sharing finding lost to a later lookup failure")
	}
	if f.Severity != models.SeverityCritical {
		t.Errorf("severity = %v, want critical", f.Severity)
	}
	if res.Score < 0.9 {
		t.Errorf("score = %v, want >= 0.9 from the sharing hit", res.Score)
	}
}
