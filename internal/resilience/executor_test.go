package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestExecuteRetriesRetryableFailure(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     1,
		BreakerEnabled:      false,
	})

	attempts := 0
	errTimeout := errors.New("timeout")
	err := exec.Execute(context.Background(), "narrative_test", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTimeout
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, errTimeout),
			RecordFailure: true,
		}
	})
	if err != nil {
		t.Fatalf("重试后应该成功，得到错误: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("期望3次尝试，实际 %d 次", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     1,
		BreakerEnabled:      false,
	})

	attempts := 0
	errPermanent := errors.New("bad request")
	err := exec.Execute(context.Background(), "narrative_test", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("应该原样返回不可重试错误，得到: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("不可重试错误应该只尝试1次，实际 %d 次", attempts)
	}
}

func TestExecuteStopsAfterMaxAttempts(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     1 * time.Millisecond,
		RetryMultiplier:     1,
		BreakerEnabled:      false,
	})

	attempts := 0
	errTimeout := errors.New("timeout")
	err := exec.Execute(context.Background(), "narrative_test", func(context.Context) error {
		attempts++
		return errTimeout
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})
	if !errors.Is(err, errTimeout) {
		t.Fatalf("重试耗尽后应该返回最后一次错误，得到: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("期望正好3次尝试，实际 %d 次", attempts)
	}
}

func TestExecuteHonorsContextCancel(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    5,
		RetryInitialBackoff: 50 * time.Millisecond,
		RetryMaxBackoff:     50 * time.Millisecond,
		RetryMultiplier:     1,
		BreakerEnabled:      false,
	})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	errTimeout := errors.New("timeout")
	err := exec.Execute(ctx, "narrative_test", func(context.Context) error {
		attempts++
		cancel()
		return errTimeout
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})
	if err == nil {
		t.Fatal("上下文取消后不应该返回成功")
	}
	if attempts != 1 {
		t.Fatalf("取消后不应该继续重试，实际 %d 次尝试", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         1,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errTimeout := errors.New("timeout")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: true,
		}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "narrative_career", func(context.Context) error {
			return errTimeout
		}, classifier)
		if !errors.Is(err, errTimeout) {
			t.Fatalf("第 %d 次调用期望原始错误，得到: %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "narrative_career", func(context.Context) error {
		t.Fatal("熔断器打开后不应该再执行操作")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("期望熔断器打开错误，得到: %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatal("IsCircuitOpen 应该识别熔断器打开错误")
	}
}

func TestBreakersAreIsolatedPerOperation(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Second,
		BreakerHalfOpenMaxCalls: 1,
	})

	errTimeout := errors.New("timeout")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "narrative_career", func(context.Context) error {
			return errTimeout
		}, classifier)
	}

	// 另一个操作名的熔断器不受影响
	err := exec.Execute(context.Background(), "narrative_skills", func(context.Context) error {
		return nil
	}, classifier)
	if err != nil {
		t.Fatalf("不同操作名应该使用独立熔断器，得到错误: %v", err)
	}
}
