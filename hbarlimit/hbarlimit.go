// Package hbarlimit implements the HBAR spending/limit service (spec.md
// §4.5, component C5): a pre-transaction check against a caller's
// configured spending plan, and post-execution accounting of spend over a
// rolling window. Window/remaining-budget clamping reuses goware/calc.Max
// the same way ethmonitor/ethreceipts clamp durations and block numbers.
package hbarlimit

import (
	"context"
	"sync"
	"time"

	"github.com/goware/calc"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// SpendingPlan is the GLOSSARY's SpendingPlan: {planId, limitTinybars,
// windowMs}; bindings are held separately in Limiter so many callers can
// share one plan.
type SpendingPlan struct {
	PlanID        string
	LimitTinybars int64
	WindowMs      int64
}

// planAccount tracks one plan's rolling-window spend.
type planAccount struct {
	spent       int64
	windowStart time.Time
}

// Limiter resolves a caller to a SpendingPlan and tracks its rolling-window
// spend. The zero value is not usable; construct with NewLimiter.
type Limiter struct {
	mu sync.Mutex

	plans            map[string]SpendingPlan
	evmAddressToPlan map[string]string
	ipAddressToPlan  map[string]string
	defaultPlanID    string

	accounts map[string]*planAccount

	now func() time.Time
}

// NewLimiter builds a Limiter over plans (keyed by PlanID), with explicit
// evm-address and ip-address bindings and a required defaultPlanID fallback
// (spec.md §4.5's binding order: evm-address → plan, then ip-address →
// plan, then default plan).
func NewLimiter(plans []SpendingPlan, evmBindings, ipBindings map[string]string, defaultPlanID string) *Limiter {
	planMap := make(map[string]SpendingPlan, len(plans))
	for _, p := range plans {
		planMap[p.PlanID] = p
	}
	return &Limiter{
		plans:            planMap,
		evmAddressToPlan: evmBindings,
		ipAddressToPlan:  ipBindings,
		defaultPlanID:    defaultPlanID,
		accounts:         make(map[string]*planAccount),
		now:              time.Now,
	}
}

// TxKind distinguishes the operation category being pre-checked, carried
// through to the EXECUTE_TRANSACTION/ETH_EXECUTION event for metrics.
type TxKind string

const (
	TxKindEthCall            TxKind = "eth_call"
	TxKindEthSendRawTransaction TxKind = "eth_sendRawTransaction"
)

func (l *Limiter) resolvePlan(evmAddress, ipAddress string) SpendingPlan {
	if planID, ok := l.evmAddressToPlan[evmAddress]; ok {
		if p, ok := l.plans[planID]; ok {
			return p
		}
	}
	if planID, ok := l.ipAddressToPlan[ipAddress]; ok {
		if p, ok := l.plans[planID]; ok {
			return p
		}
	}
	return l.plans[l.defaultPlanID]
}

func (l *Limiter) accountFor(plan SpendingPlan) *planAccount {
	acct, ok := l.accounts[plan.PlanID]
	if !ok {
		acct = &planAccount{windowStart: l.now()}
		l.accounts[plan.PlanID] = acct
	}

	windowDur := time.Duration(plan.WindowMs) * time.Millisecond
	if windowDur > 0 && l.now().Sub(acct.windowStart) >= windowDur {
		acct.spent = 0
		acct.windowStart = l.now()
	}

	return acct
}

// ShouldLimit reports whether the plan bound to evmAddress (else ipAddress,
// else the default plan) would be exceeded by estimatedFeeTinybars (spec.md
// §4.5). txKind, ctx and originalCallerAddress are not read. Returns relayerrors.HbarRateLimitExceeded as the accompanying
// error when the plan has no budget left, so callers can surface it
// directly as the JSON-RPC error.
func (l *Limiter) ShouldLimit(ctx context.Context, txKind TxKind, evmAddress, ipAddress, originalCallerAddress string, estimatedFeeTinybars int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	plan := l.resolvePlan(evmAddress, ipAddress)
	if plan.PlanID == "" {
		return false, nil
	}

	acct := l.accountFor(plan)
	remaining := calc.Max(int64(0), plan.LimitTinybars-acct.spent)

	if estimatedFeeTinybars > remaining {
		return true, relayerrors.HbarRateLimitExceeded(plan.PlanID)
	}
	return false, nil
}

// RecordSpend adds executionCost to the resolved plan's rolling-window
// total after a transaction executes (spec.md §4.5's accounting step).
func (l *Limiter) RecordSpend(evmAddress, ipAddress string, executionCost int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	plan := l.resolvePlan(evmAddress, ipAddress)
	if plan.PlanID == "" {
		return
	}

	acct := l.accountFor(plan)
	acct.spent += executionCost
}

// RemainingBudget reports the caller's resolved plan's remaining tinybar
// budget in the current window, used by admin/debug surfaces.
func (l *Limiter) RemainingBudget(evmAddress, ipAddress string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	plan := l.resolvePlan(evmAddress, ipAddress)
	if plan.PlanID == "" {
		return 0
	}
	acct := l.accountFor(plan)
	return calc.Max(int64(0), plan.LimitTinybars-acct.spent)
}
