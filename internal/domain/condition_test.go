package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionForIcon_TableExactness(t *testing.T) {
	// Every code in the table maps back to its own category.
	for cond, icons := range conditionClasses {
		for _, icon := range icons {
			assert.Equal(t, cond, ConditionForIcon(icon), "icon %d", icon)
		}
	}
}

func TestConditionForIcon_Samples(t *testing.T) {
	tests := []struct {
		icon int
		want Condition
	}{
		{1, ConditionSunny},
		{101, ConditionClearNight},
		{2, ConditionPartlyCloudy},
		{5, ConditionCloudy},
		{20, ConditionPouring},
		{28, ConditionFog},
		{112, ConditionLightning},
		{122, ConditionSnowy},
		{131, ConditionSnowyRainy},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ConditionForIcon(tc.icon), "icon %d", tc.icon)
	}
}

func TestConditionForIcon_UnknownCodes(t *testing.T) {
	for _, icon := range []int{0, -1, 36, 100, 136, 999} {
		assert.Empty(t, ConditionForIcon(icon), "icon %d should be unknown", icon)
	}
}

func TestConditionForIconPtr(t *testing.T) {
	assert.Empty(t, conditionForIconPtr(nil))

	icon := 1
	assert.Equal(t, ConditionSunny, conditionForIconPtr(&icon))
}
