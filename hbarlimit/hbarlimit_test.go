package hbarlimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldLimitBindingOrder(t *testing.T) {
	plans := []SpendingPlan{
		{PlanID: "evm-plan", LimitTinybars: 100, WindowMs: int64(time.Minute / time.Millisecond)},
		{PlanID: "ip-plan", LimitTinybars: 50, WindowMs: int64(time.Minute / time.Millisecond)},
		{PlanID: "default-plan", LimitTinybars: 10, WindowMs: int64(time.Minute / time.Millisecond)},
	}
	l := NewLimiter(plans,
		map[string]string{"0xabc": "evm-plan"},
		map[string]string{"1.2.3.4": "ip-plan"},
		"default-plan",
	)
	ctx := context.Background()

	// evm-address binding wins even though an ip binding also matches.
	limited, err := l.ShouldLimit(ctx, TxKindEthCall, "0xabc", "1.2.3.4", "0xabc", 80)
	require.NoError(t, err)
	require.False(t, limited)

	// no evm binding: falls back to ip binding.
	limited, err = l.ShouldLimit(ctx, TxKindEthCall, "0xdef", "1.2.3.4", "0xdef", 40)
	require.NoError(t, err)
	require.False(t, limited)

	// no bindings at all: falls back to default plan, whose budget of 10 is exceeded by 40.
	limited, err = l.ShouldLimit(ctx, TxKindEthCall, "0xzzz", "9.9.9.9", "0xzzz", 40)
	require.Error(t, err)
	require.True(t, limited)
}

func TestRecordSpendReducesRemainingBudget(t *testing.T) {
	plans := []SpendingPlan{{PlanID: "p", LimitTinybars: 100, WindowMs: int64(time.Minute / time.Millisecond)}}
	l := NewLimiter(plans, map[string]string{"0xabc": "p"}, nil, "p")

	l.RecordSpend("0xabc", "", 60)
	require.Equal(t, int64(40), l.RemainingBudget("0xabc", ""))

	limited, err := l.ShouldLimit(context.Background(), TxKindEthSendRawTransaction, "0xabc", "", "0xabc", 50)
	require.Error(t, err)
	require.True(t, limited)
}

func TestWindowRollsOver(t *testing.T) {
	plans := []SpendingPlan{{PlanID: "p", LimitTinybars: 100, WindowMs: 20}}
	l := NewLimiter(plans, map[string]string{"0xabc": "p"}, nil, "p")

	l.RecordSpend("0xabc", "", 100)
	require.Equal(t, int64(0), l.RemainingBudget("0xabc", ""))

	time.Sleep(30 * time.Millisecond)

	require.Equal(t, int64(100), l.RemainingBudget("0xabc", ""), "spend should roll over once the window elapses")
}
