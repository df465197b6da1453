package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"fit-calories/internal/activity"
	"fit-calories/internal/keytel"
)

var t0 = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

func sample(offset time.Duration, hr int) activity.Sample {
	return activity.Sample{Timestamp: t0.Add(offset), HeartRate: intPtr(hr)}
}

func blank(offset time.Duration) activity.Sample {
	return activity.Sample{Timestamp: t0.Add(offset)}
}

var maleProfile = Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Male}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		samples []activity.Sample
		profile Profile
		checkFn func(t *testing.T, s Summary)
	}{
		{
			name:    "two samples ten minutes apart",
			samples: []activity.Sample{sample(0, 100), sample(10*time.Minute, 140)},
			profile: maleProfile,
			checkFn: func(t *testing.T, s Summary) {
				if s.AverageHeartRate != 120 {
					t.Errorf("AverageHeartRate = %v, want 120", s.AverageHeartRate)
				}
				if s.DurationMinutes != 10 {
					t.Errorf("DurationMinutes = %v, want 10", s.DurationMinutes)
				}
				// 9.6984 kcal/min * 10 min
				if math.Abs(s.EstimatedCalories-96.984) > 0.01 {
					t.Errorf("EstimatedCalories = %v, want ~96.984", s.EstimatedCalories)
				}
				if math.Abs(s.IntegratedCalories-s.EstimatedCalories) > 1e-9 {
					t.Errorf("IntegratedCalories = %v, want %v for a single interval", s.IntegratedCalories, s.EstimatedCalories)
				}
				if s.SampleCount != 2 || s.ValidReadings != 2 {
					t.Errorf("counts = %d/%d, want 2/2", s.SampleCount, s.ValidReadings)
				}
			},
		},
		{
			name:    "single sample gives zero calories",
			samples: []activity.Sample{sample(0, 130)},
			profile: maleProfile,
			checkFn: func(t *testing.T, s Summary) {
				if s.AverageHeartRate != 130 {
					t.Errorf("AverageHeartRate = %v, want 130", s.AverageHeartRate)
				}
				if s.DurationMinutes != 0 || s.EstimatedCalories != 0 {
					t.Errorf("duration/calories = %v/%v, want 0/0", s.DurationMinutes, s.EstimatedCalories)
				}
				if s.IntegratedCalories != 0 {
					t.Errorf("IntegratedCalories = %v, want 0", s.IntegratedCalories)
				}
			},
		},
		{
			name: "unordered samples with gaps in readings",
			samples: []activity.Sample{
				sample(20*time.Minute, 150),
				blank(5 * time.Minute),
				sample(0, 110),
				sample(10*time.Minute, 130),
			},
			profile: maleProfile,
			checkFn: func(t *testing.T, s Summary) {
				if s.AverageHeartRate != 130 {
					t.Errorf("AverageHeartRate = %v, want 130", s.AverageHeartRate)
				}
				if s.DurationMinutes != 20 {
					t.Errorf("DurationMinutes = %v, want 20", s.DurationMinutes)
				}
				if s.ValidReadings != 3 || s.SampleCount != 4 {
					t.Errorf("counts = %d/%d, want 3 valid of 4", s.ValidReadings, s.SampleCount)
				}
				if !s.Quality.OutOfOrder {
					t.Error("Quality.OutOfOrder should be set")
				}
			},
		},
		{
			name:    "female profile",
			samples: []activity.Sample{sample(0, 120), sample(30*time.Minute, 120)},
			profile: Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Female},
			checkFn: func(t *testing.T, s Summary) {
				// 6.3673 kcal/min * 30 min
				if math.Abs(s.EstimatedCalories-191.02) > 0.01 {
					t.Errorf("EstimatedCalories = %v, want ~191.02", s.EstimatedCalories)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Summarize(tt.samples, tt.profile)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.checkFn(t, s)
		})
	}
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		samples []activity.Sample
		profile Profile
		wantErr error
	}{
		{
			name:    "no samples",
			samples: nil,
			profile: maleProfile,
			wantErr: activity.ErrMissingData,
		},
		{
			name:    "no readings",
			samples: []activity.Sample{blank(0), blank(time.Minute)},
			profile: maleProfile,
			wantErr: activity.ErrMissingData,
		},
		{
			name:    "only implausible readings",
			samples: []activity.Sample{sample(0, 300), sample(time.Minute, 999)},
			profile: maleProfile,
			wantErr: activity.ErrMissingData,
		},
		{
			name:    "weight out of range",
			samples: []activity.Sample{sample(0, 120)},
			profile: Profile{WeightKg: 600, AgeYears: 30, Gender: keytel.Male},
			wantErr: keytel.ErrValidation,
		},
		{
			name:    "unknown gender",
			samples: []activity.Sample{sample(0, 120)},
			profile: Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Gender(5)},
			wantErr: keytel.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Summarize(tt.samples, tt.profile)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Summarize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(65, 40, "Female")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Gender != keytel.Female || p.WeightKg != 65 || p.AgeYears != 40 {
		t.Errorf("NewProfile() = %+v", p)
	}

	if _, err := NewProfile(65, 40, "unknown"); !errors.Is(err, keytel.ErrValidation) {
		t.Errorf("bad gender: expected ErrValidation, got %v", err)
	}
	if _, err := NewProfile(65, 0, "male"); !errors.Is(err, keytel.ErrValidation) {
		t.Errorf("zero age: expected ErrValidation, got %v", err)
	}
}

func TestIntegrateCalories(t *testing.T) {
	samples := []activity.Sample{
		sample(0, 100),
		sample(time.Minute, 120),
		sample(time.Minute, 180),                      // duplicate timestamp, skipped
		sample(time.Minute+200*time.Millisecond, 120), // under MinIntervalMinutes
		blank(90 * time.Second),
		sample(3*time.Minute, 140),
	}

	got, err := IntegrateCalories(samples, maleProfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	k1, _ := keytel.KcalPerMin(110, 70, 30, keytel.Male)
	k2, _ := keytel.KcalPerMin(130, 70, 30, keytel.Male)
	eps := (200 * time.Millisecond).Minutes()
	want := k1*1 + k2*(2-eps)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("IntegrateCalories() = %v, want %v", got, want)
	}
}
