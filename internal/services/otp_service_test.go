package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/infrastructure/repositories"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/mocks"
)

type otpFixture struct {
	svc      *OTPServiceImpl
	store    *repositories.MemoryOTPStore
	notifier *mocks.MockNotificationService
	audit    *mocks.MockAuditLogger
	now      time.Time
}

func newOTPFixture(t *testing.T, cfg OTPConfig) *otpFixture {
	t.Helper()

	f := &otpFixture{
		notifier: mocks.NewMockNotificationService(),
		audit:    mocks.NewMockAuditLogger(),
		now:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.store = repositories.NewMemoryOTPStore().WithClock(clock)
	f.svc = NewOTPService(f.store, f.notifier, cfg, f.audit, logging.Nop()).(*OTPServiceImpl)
	f.svc.now = clock
	return f
}

func TestOTPService_SendAndVerify(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{Length: 6, TTL: 5 * time.Minute})
	ctx := context.Background()

	c, err := f.svc.Send(ctx, "+15550001111")
	require.NoError(t, err)
	assert.Len(t, c.Code, 6)
	assert.Equal(t, f.now.Add(5*time.Minute), c.ExpiresAt)

	sms, ok := f.notifier.Last()
	require.True(t, ok)
	assert.Equal(t, "+15550001111", sms.To)
	assert.Equal(t, "Your OTP is "+c.Code+". Valid for 5 minutes.", sms.Message)

	ok, err = f.svc.Verify(ctx, "+15550001111", c.Code)
	require.NoError(t, err)
	assert.True(t, ok)

	// at most once
	ok, err = f.svc.Verify(ctx, "+15550001111", c.Code)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []domain.AuditEventType{
		domain.OTPRequestEvent, domain.OTPVerifyEvent, domain.OTPVerifyFailEvent,
	}, f.audit.Types())
}

func TestOTPService_MismatchKeepsChallenge(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{Length: 6, TTL: 5 * time.Minute})
	ctx := context.Background()

	c, err := f.svc.Send(ctx, "+15550001111")
	require.NoError(t, err)

	wrong := "000000"
	if c.Code == wrong {
		wrong = "999999"
	}
	ok, err := f.svc.Verify(ctx, "+15550001111", wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.Verify(ctx, "+15550001111", c.Code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPService_Expiry(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{Length: 6, TTL: 5 * time.Minute})
	ctx := context.Background()

	c, err := f.svc.Send(ctx, "+15550001111")
	require.NoError(t, err)

	f.now = f.now.Add(5*time.Minute + time.Second)
	ok, err := f.svc.Verify(ctx, "+15550001111", c.Code)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, f.store.Len(), "expired challenge is evicted")
}

func TestOTPService_ResendReplacesCode(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{Length: 6, TTL: 5 * time.Minute})
	ctx := context.Background()

	first, err := f.svc.Send(ctx, "+15550001111")
	require.NoError(t, err)
	second, err := f.svc.Send(ctx, "+15550001111")
	require.NoError(t, err)

	if first.Code != second.Code {
		ok, err := f.svc.Verify(ctx, "+15550001111", first.Code)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := f.svc.Verify(ctx, "+15550001111", second.Code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPService_DeliveryFailure(t *testing.T) {
	tests := []struct {
		name      string
		strict    bool
		wantErr   error
		wantStore int
	}{
		{name: "lenient keeps challenge", strict: false, wantStore: 1},
		{name: "strict drops challenge", strict: true, wantErr: domain.ErrOTPDelivery, wantStore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOTPFixture(t, OTPConfig{Length: 6, TTL: time.Minute, FailOnDeliveryError: tt.strict})
			f.notifier.SendSMSFunc = func(ctx context.Context, to, message string) error {
				return errors.New("twilio: 401")
			}

			c, err := f.svc.Send(context.Background(), "+15550001111")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, c)
			}
			assert.Equal(t, tt.wantStore, f.store.Len())
			assert.Contains(t, f.audit.Types(), domain.OTPDeliveryFailEvent)
		})
	}
}

func TestOTPService_StrictFailureKeepsNewerChallenge(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{Length: 6, TTL: time.Minute, FailOnDeliveryError: true})
	ctx := context.Background()

	// a second send lands while the first delivery is still failing; its
	// code is five digits so it can never collide with the generated one
	newer := &domain.OTPChallenge{Phone: "+15550001111", Code: "99999", ExpiresAt: f.now.Add(time.Minute)}
	f.notifier.SendSMSFunc = func(ctx context.Context, to, message string) error {
		require.NoError(t, f.store.Save(ctx, newer))
		return errors.New("twilio: 503")
	}

	_, err := f.svc.Send(ctx, "+15550001111")
	assert.ErrorIs(t, err, domain.ErrOTPDelivery)
	require.Equal(t, 1, f.store.Len())

	ok, err := f.svc.Verify(ctx, "+15550001111", "99999")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPService_InvalidPhone(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{})
	_, err := f.svc.Send(context.Background(), "not a phone")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.notifier.Sent)
}

func TestOTPService_StoreErrorsSurface(t *testing.T) {
	store := mocks.NewMockOTPStore()
	store.ConsumeFunc = func(ctx context.Context, phone, code string) (bool, error) {
		return false, errors.New("redis down")
	}
	store.SaveFunc = func(ctx context.Context, c *domain.OTPChallenge) error {
		return errors.New("redis down")
	}
	svc := NewOTPService(store, mocks.NewMockNotificationService(), OTPConfig{}, mocks.NewMockAuditLogger(), logging.Nop())

	ok, err := svc.Verify(context.Background(), "+15550001111", "123456")
	require.Error(t, err)
	assert.False(t, ok)

	_, err = svc.Send(context.Background(), "+15550001111")
	assert.Error(t, err)
}

func TestOTPService_CodeRange(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		f := newOTPFixture(t, OTPConfig{Length: length, TTL: time.Minute})
		low := 1
		for i := 1; i < length; i++ {
			low *= 10
		}
		high := low*10 - 1

		for i := 0; i < 200; i++ {
			code, err := f.svc.generateCode()
			require.NoError(t, err)
			require.Len(t, code, length)
			assert.False(t, strings.HasPrefix(code, "0"))
			n, err := strconv.Atoi(code)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, low)
			assert.LessOrEqual(t, n, high)
		}
	}
}

func TestOTPService_RandomSourceFailure(t *testing.T) {
	f := newOTPFixture(t, OTPConfig{Length: 6, TTL: time.Minute})
	f.svc.random = strings.NewReader("")

	_, err := f.svc.Send(context.Background(), "+15550001111")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate OTP code")
	assert.Equal(t, 0, f.store.Len())
}
