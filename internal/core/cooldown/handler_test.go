package cooldown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestHandlerSpecBuild(t *testing.T) {
	tests := []struct {
		name        string
		spec        HandlerSpec
		expected    Handler
		expectError bool
	}{
		{
			name:     "charged",
			spec:     HandlerSpec{Kind: "charged", MaxCharges: 2},
			expected: ChargedCooldown{MaxCharges: 2},
		},
		{
			name:        "charged without charges",
			spec:        HandlerSpec{Kind: "charged"},
			expectError: true,
		},
		{
			name:     "mutual ignores case",
			spec:     HandlerSpec{Kind: " Mutual "},
			expected: MutualCooldown{},
		},
		{
			name:     "card",
			spec:     HandlerSpec{Kind: "card"},
			expected: CardDependency{},
		},
		{
			name:     "resource defaults to a full gauge",
			spec:     HandlerSpec{Kind: "resource", Gauge: &Gauge{Cost: 50, Gain: 5, Max: 100}},
			expected: ResourceGated{Cost: 50, GainPerAction: 5, Max: 100, Initial: 100},
		},
		{
			name:     "resource initial is clamped",
			spec:     HandlerSpec{Kind: "resource", Gauge: &Gauge{Cost: 50, Gain: 5, Max: 100, Initial: intPtr(250)}},
			expected: ResourceGated{Cost: 50, GainPerAction: 5, Max: 100, Initial: 100},
		},
		{
			name:        "resource without gauge",
			spec:        HandlerSpec{Kind: "resource"},
			expectError: true,
		},
		{
			name:        "resource cost above max",
			spec:        HandlerSpec{Kind: "resource", Gauge: &Gauge{Cost: 150, Gain: 5, Max: 100}},
			expectError: true,
		},
		{
			name:        "free-form dispatch names are rejected",
			spec:        HandlerSpec{Kind: "handleChargedCooldown"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.spec.Build()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h)
		})
	}
}

func TestHandlerKinds(t *testing.T) {
	assert.Equal(t, KindCharged, ChargedCooldown{}.Kind())
	assert.Equal(t, KindMutual, MutualCooldown{}.Kind())
	assert.Equal(t, KindCard, CardDependency{}.Kind())
	assert.Equal(t, KindResource, ResourceGated{}.Kind())
}
