package domain

// Condition is a human-facing weather category derived from a provider icon
// code. The empty string means the icon code is unknown to the table.
type Condition string

const (
	ConditionClearNight     Condition = "clear-night"
	ConditionCloudy         Condition = "cloudy"
	ConditionFog            Condition = "fog"
	ConditionHail           Condition = "hail"
	ConditionLightning      Condition = "lightning"
	ConditionLightningRainy Condition = "lightning-rainy"
	ConditionPartlyCloudy   Condition = "partlycloudy"
	ConditionPouring        Condition = "pouring"
	ConditionRainy          Condition = "rainy"
	ConditionSnowy          Condition = "snowy"
	ConditionSnowyRainy     Condition = "snowy-rainy"
	ConditionSunny          Condition = "sunny"
	ConditionWindy          Condition = "windy"
	ConditionWindyVariant   Condition = "windy-variant"
	ConditionExceptional    Condition = "exceptional"
)

// conditionClasses groups the provider's icon codes per category. Night-time
// variants are the day code plus 100. Some categories (hail, windy,
// exceptional) have no icon in the current provider palette but remain valid
// output categories.
var conditionClasses = map[Condition][]int{
	ConditionClearNight:     {101},
	ConditionCloudy:         {5, 35, 105, 135},
	ConditionFog:            {27, 28, 127, 128},
	ConditionHail:           {},
	ConditionLightning:      {12, 112},
	ConditionLightningRainy: {13, 23, 24, 25, 32, 113, 123, 124, 125, 132},
	ConditionPartlyCloudy:   {2, 3, 4, 102, 103, 104},
	ConditionPouring:        {20, 120},
	ConditionRainy:          {6, 9, 14, 17, 29, 33, 106, 109, 114, 117, 129, 133},
	ConditionSnowy:          {8, 11, 16, 19, 22, 30, 34, 108, 111, 116, 119, 122, 130, 134},
	ConditionSnowyRainy:     {7, 10, 15, 18, 21, 31, 107, 110, 115, 118, 121, 131},
	ConditionSunny:          {1, 26, 126},
	ConditionWindy:          {},
	ConditionWindyVariant:   {},
	ConditionExceptional:    {},
}

var iconConditions = func() map[int]Condition {
	m := make(map[int]Condition)
	for cond, icons := range conditionClasses {
		for _, icon := range icons {
			m[icon] = cond
		}
	}
	return m
}()

// ConditionForIcon maps a provider icon code to its condition category.
// Unknown codes return the empty Condition; the table is deliberately not
// exhaustive over the provider's palette.
func ConditionForIcon(icon int) Condition {
	return iconConditions[icon]
}

// conditionForIconPtr is the nil-tolerant variant used when the icon itself
// may be absent.
func conditionForIconPtr(icon *int) Condition {
	if icon == nil {
		return ""
	}
	return iconConditions[*icon]
}
