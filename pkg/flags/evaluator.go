// FILE: pkg/flags/evaluator.go
// Pure feature-flag evaluation. No I/O; safe to run on every request.
package flags

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"slices"

	"vauntico-access-be/internal/entity"
)

// Evaluator decides whether a flag is on for a given context. Environment
// is the running deployment name used by environment-typed flags.
type Evaluator struct {
	Environment string
}

func NewEvaluator(environment string) *Evaluator {
	return &Evaluator{Environment: environment}
}

// Evaluate maps (flag definition, evaluation context) to a boolean.
// The master Enabled switch dominates: a disabled or unknown-typed flag is
// off regardless of its type-specific fields.
func (e *Evaluator) Evaluate(flag *entity.FeatureFlag, ctx *entity.EvaluationContext) bool {
	if flag == nil || !flag.Enabled {
		return false
	}

	switch flag.Type {
	case entity.FlagTypeBoolean:
		return true
	case entity.FlagTypePercentage:
		return e.evaluatePercentage(flag, ctx)
	case entity.FlagTypeUserTargeting:
		if ctx == nil {
			return false
		}
		return (ctx.UserId != "" && slices.Contains(flag.UserIds, ctx.UserId)) ||
			(ctx.UserEmail != "" && slices.Contains(flag.UserIds, ctx.UserEmail))
	case entity.FlagTypeEnvironment:
		return slices.Contains(flag.Environments, e.Environment)
	default:
		return false
	}
}

func (e *Evaluator) evaluatePercentage(flag *entity.FeatureFlag, ctx *entity.EvaluationContext) bool {
	if ctx == nil || ctx.UserId == "" {
		// Anonymous traffic: per-call draw. Not reproducible, and results
		// for anonymous contexts must never be cached.
		return rand.Float64()*100 < float64(flag.Percentage)
	}
	return Bucket(ctx.UserId, flag.Key) <= flag.Percentage
}

// Bucket assigns a user a stable slot in [1,100] for a flag. The same
// (userId, flagKey) pair always hashes identically across processes and
// restarts, and raising a flag's percentage only ever adds users to the
// enabled set.
func Bucket(userId, flagKey string) int {
	sum := sha256.Sum256([]byte(userId + ":" + flagKey))
	return int(binary.BigEndian.Uint32(sum[:4])%100) + 1
}
