package flags

import (
	"fmt"
	"testing"

	"vauntico-access-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateMasterSwitch(t *testing.T) {
	e := NewEvaluator("production")

	tests := []struct {
		name string
		flag *entity.FeatureFlag
		ctx  *entity.EvaluationContext
		want bool
	}{
		{
			name: "nil flag is off",
			flag: nil,
			ctx:  &entity.EvaluationContext{UserId: "u1"},
			want: false,
		},
		{
			name: "disabled boolean flag is off",
			flag: &entity.FeatureFlag{Key: "k", Type: entity.FlagTypeBoolean, Enabled: false},
			ctx:  &entity.EvaluationContext{UserId: "u1"},
			want: false,
		},
		{
			name: "disabled percentage flag is off even at 100",
			flag: &entity.FeatureFlag{Key: "k", Type: entity.FlagTypePercentage, Enabled: false, Percentage: 100},
			ctx:  &entity.EvaluationContext{UserId: "u1"},
			want: false,
		},
		{
			name: "enabled boolean flag is on",
			flag: &entity.FeatureFlag{Key: "k", Type: entity.FlagTypeBoolean, Enabled: true},
			ctx:  &entity.EvaluationContext{UserId: "u1"},
			want: true,
		},
		{
			name: "unknown type is off",
			flag: &entity.FeatureFlag{Key: "k", Type: entity.FlagType("gradual"), Enabled: true},
			ctx:  &entity.EvaluationContext{UserId: "u1"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(tt.flag, tt.ctx))
		})
	}
}

func TestEvaluatePercentageDeterminism(t *testing.T) {
	e := NewEvaluator("production")
	flag := &entity.FeatureFlag{Key: "new_checkout", Type: entity.FlagTypePercentage, Enabled: true, Percentage: 50}

	for i := 0; i < 100; i++ {
		userId := fmt.Sprintf("user-%d", i)
		ctx := &entity.EvaluationContext{UserId: userId}
		first := e.Evaluate(flag, ctx)
		for j := 0; j < 10; j++ {
			assert.Equal(t, first, e.Evaluate(flag, ctx), "user %s flipped between calls", userId)
		}
	}
}

func TestEvaluatePercentageBoundaries(t *testing.T) {
	e := NewEvaluator("production")
	ctx := &entity.EvaluationContext{UserId: "some-user"}

	zero := &entity.FeatureFlag{Key: "k", Type: entity.FlagTypePercentage, Enabled: true, Percentage: 0}
	full := &entity.FeatureFlag{Key: "k", Type: entity.FlagTypePercentage, Enabled: true, Percentage: 100}

	assert.False(t, e.Evaluate(zero, ctx))
	assert.True(t, e.Evaluate(full, ctx))
}

func TestEvaluatePercentageMonotonicity(t *testing.T) {
	// Raising the percentage must never drop a user out of the enabled set.
	e := NewEvaluator("production")

	for i := 0; i < 1000; i++ {
		userId := fmt.Sprintf("user-%d", i)
		ctx := &entity.EvaluationContext{UserId: userId}
		wasEnabled := false
		for pct := 0; pct <= 100; pct += 5 {
			flag := &entity.FeatureFlag{Key: "ramp", Type: entity.FlagTypePercentage, Enabled: true, Percentage: pct}
			enabled := e.Evaluate(flag, ctx)
			if wasEnabled {
				assert.True(t, enabled, "user %s dropped out at %d%%", userId, pct)
			}
			wasEnabled = wasEnabled || enabled
		}
	}
}

func TestEvaluatePercentageDistribution(t *testing.T) {
	e := NewEvaluator("production")
	flag := &entity.FeatureFlag{Key: "rollout", Type: entity.FlagTypePercentage, Enabled: true, Percentage: 50}

	enabled := 0
	const total = 10000
	for i := 0; i < total; i++ {
		if e.Evaluate(flag, &entity.EvaluationContext{UserId: fmt.Sprintf("user-%d", i)}) {
			enabled++
		}
	}

	share := float64(enabled) / float64(total) * 100
	assert.InDelta(t, 50.0, share, 2.0, "enabled share %f%% outside tolerance", share)
}

func TestEvaluatePercentageIndependentPerFlag(t *testing.T) {
	// Bucket assignment mixes the flag key, so two flags at the same
	// percentage enable different user sets.
	flagA := "flag-a"
	flagB := "flag-b"

	diverged := false
	for i := 0; i < 200; i++ {
		userId := fmt.Sprintf("user-%d", i)
		if (Bucket(userId, flagA) <= 50) != (Bucket(userId, flagB) <= 50) {
			diverged = true
			break
		}
	}
	assert.True(t, diverged, "bucket assignment did not vary across flag keys")
}

func TestBucketRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		b := Bucket(fmt.Sprintf("user-%d", i), "any-flag")
		assert.GreaterOrEqual(t, b, 1)
		assert.LessOrEqual(t, b, 100)
	}
}

func TestEvaluateUserTargeting(t *testing.T) {
	e := NewEvaluator("production")
	flag := &entity.FeatureFlag{
		Key:     "beta_access",
		Type:    entity.FlagTypeUserTargeting,
		Enabled: true,
		UserIds: []string{"user-1", "vip@example.com"},
	}

	tests := []struct {
		name string
		ctx  *entity.EvaluationContext
		want bool
	}{
		{name: "targeted by id", ctx: &entity.EvaluationContext{UserId: "user-1"}, want: true},
		{name: "targeted by email", ctx: &entity.EvaluationContext{UserId: "user-9", UserEmail: "vip@example.com"}, want: true},
		{name: "not targeted", ctx: &entity.EvaluationContext{UserId: "user-2", UserEmail: "other@example.com"}, want: false},
		{name: "nil context", ctx: nil, want: false},
		{name: "anonymous", ctx: &entity.EvaluationContext{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(flag, tt.ctx))
		})
	}
}

func TestEvaluateEnvironment(t *testing.T) {
	flag := &entity.FeatureFlag{
		Key:          "debug_panel",
		Type:         entity.FlagTypeEnvironment,
		Enabled:      true,
		Environments: []string{"staging", "development"},
	}
	ctx := &entity.EvaluationContext{UserId: "u1"}

	assert.True(t, NewEvaluator("staging").Evaluate(flag, ctx))
	assert.True(t, NewEvaluator("development").Evaluate(flag, ctx))
	assert.False(t, NewEvaluator("production").Evaluate(flag, ctx))
}
