package discount

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFinder struct{ mock.Mock }

func (m *MockFinder) FindByCode(ctx context.Context, code string) (*Code, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Code), args.Error(1)
}

func ts(t time.Time) *time.Time { return &t }

func validWindow(now time.Time) (*time.Time, *time.Time) {
	return ts(now.AddDate(0, -1, 0)), ts(now.AddDate(0, 1, 0))
}

func TestApply(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	from, until := validWindow(now)

	tests := []struct {
		name     string
		price    int64
		code     Code
		expected int64
		wantErr  bool
	}{
		{
			name:     "20 percent of 4999 rounds to 1000",
			price:    4999,
			code:     Code{Code: "SAVE20", Kind: KindPercent, Value: 20, Active: true, ValidFrom: from, ValidUntil: until},
			expected: 1000,
		},
		{
			name:     "fixed amount in cents",
			price:    4999,
			code:     Code{Code: "OFF500", Kind: KindFixed, Value: 500, Active: true, ValidFrom: from, ValidUntil: until},
			expected: 500,
		},
		{
			name:     "fixed discount larger than the price clamps to the price",
			price:    300,
			code:     Code{Code: "OFF500", Kind: KindFixed, Value: 500, Active: true, ValidFrom: from, ValidUntil: until},
			expected: 300,
		},
		{
			name:     "100 percent zeroes the price",
			price:    4999,
			code:     Code{Code: "FREE", Kind: KindPercent, Value: 100, Active: true, ValidFrom: from, ValidUntil: until},
			expected: 4999,
		},
		{
			name:    "inactive code",
			price:   4999,
			code:    Code{Code: "OLD", Kind: KindPercent, Value: 20, Active: false, ValidFrom: from, ValidUntil: until},
			wantErr: true,
		},
		{
			name:    "expired window",
			price:   4999,
			code:    Code{Code: "PAST", Kind: KindPercent, Value: 20, Active: true, ValidFrom: ts(now.AddDate(0, -2, 0)), ValidUntil: ts(now.AddDate(0, -1, 0))},
			wantErr: true,
		},
		{
			name:    "not yet valid",
			price:   4999,
			code:    Code{Code: "SOON", Kind: KindPercent, Value: 20, Active: true, ValidFrom: ts(now.AddDate(0, 1, 0)), ValidUntil: ts(now.AddDate(0, 2, 0))},
			wantErr: true,
		},
		{
			name:     "no validity window applies any time",
			price:    4999,
			code:     Code{Code: "EVERGREEN", Kind: KindFixed, Value: 500, Active: true},
			expected: 500,
		},
		{
			name:     "open upper bound",
			price:    4999,
			code:     Code{Code: "ONWARD", Kind: KindPercent, Value: 10, Active: true, ValidFrom: from},
			expected: 500,
		},
		{
			name:    "percent above 100",
			price:   4999,
			code:    Code{Code: "BROKEN", Kind: KindPercent, Value: 150, Active: true, ValidFrom: from, ValidUntil: until},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			price:   4999,
			code:    Code{Code: "ODD", Kind: "points", Value: 20, Active: true, ValidFrom: from, ValidUntil: until},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(tt.price, &tt.code, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, res.DiscountCents)
			assert.Equal(t, tt.code.Code, res.Code)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("empty code is a zero discount", func(t *testing.T) {
		finder := new(MockFinder)
		r := NewResolver(finder)

		res, err := r.Resolve(context.Background(), 4999, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), res.DiscountCents)
		assert.Empty(t, res.Code)
		finder.AssertNotCalled(t, "FindByCode")
	})

	t.Run("unknown code", func(t *testing.T) {
		finder := new(MockFinder)
		r := NewResolver(finder)

		finder.On("FindByCode", mock.Anything, "NOPE").Return(nil, sql.ErrNoRows)

		_, err := r.Resolve(context.Background(), 4999, "NOPE")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("valid code resolves", func(t *testing.T) {
		finder := new(MockFinder)
		r := NewResolver(finder)

		now := time.Now()
		from, until := validWindow(now)
		finder.On("FindByCode", mock.Anything, "SAVE20").Return(&Code{
			Code: "SAVE20", Kind: KindPercent, Value: 20,
			Active: true, ValidFrom: from, ValidUntil: until,
		}, nil)

		res, err := r.Resolve(context.Background(), 4999, "SAVE20")
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), res.DiscountCents)
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, int64(0), Clamp(4999, -5))
	assert.Equal(t, int64(4999), Clamp(4999, 10000))
	assert.Equal(t, int64(1000), Clamp(4999, 1000))
}
