package main

import "errors"

// errNoEligibleFood is returned when the restriction filter leaves no
// candidate for a required meal category. The engine never substitutes a
// forbidden item to fill the gap.
var errNoEligibleFood = errors.New("no eligible food for meal category")

// food is one row of the read-only nutrition dataset. Macro values are per
// 100 g. Tags drive restriction filtering: a food carrying any excluded tag
// is never selected.
type food struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"` // kcal per 100 g
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fats     float64  `json:"fats"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// restrictionExclusions expands a dietary restriction into the food tags it
// rules out. Unknown restrictions fall through to a direct tag match, so a
// free-form tag like "soy" still excludes soy-tagged foods.
var restrictionExclusions = map[string][]string{
	"vegetarian":  {"meat", "fish"},
	"vegan":       {"meat", "fish", "dairy", "eggs"},
	"pescatarian": {"meat"},
	"lactose":     {"dairy"},
	"gluten_free": {"gluten"},
	"nut_allergy": {"nuts"},
}

// foodStore is the read-only food lookup provider. Dataset order is stable,
// which keeps meal selection deterministic for a given profile.
type foodStore struct {
	foods []food
}

// excludedTags builds the set of tags ruled out by the given restrictions.
func excludedTags(restrictions []string) map[string]bool {
	excluded := make(map[string]bool)
	for _, r := range restrictions {
		if tags, ok := restrictionExclusions[r]; ok {
			for _, t := range tags {
				excluded[t] = true
			}
			continue
		}
		excluded[r] = true
	}
	return excluded
}

// byCategory returns foods in a category that carry none of the excluded tags.
func (s *foodStore) byCategory(category string, excluded map[string]bool) []food {
	var out []food
	for _, f := range s.foods {
		if f.Category != category {
			continue
		}
		allowed := true
		for _, t := range f.Tags {
			if excluded[t] {
				allowed = false
				break
			}
		}
		if allowed {
			out = append(out, f)
		}
	}
	return out
}

// newFoodStore loads the bundled nutrition dataset (USDA-derived values,
// per 100 g).
func newFoodStore() *foodStore {
	return &foodStore{foods: []food{
		// Proteins
		{Name: "chicken_breast", Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6, Category: "protein", Tags: []string{"meat"}},
		{Name: "turkey_breast", Calories: 135, Protein: 30, Carbs: 0, Fats: 1, Category: "protein", Tags: []string{"meat"}},
		{Name: "salmon", Calories: 208, Protein: 20, Carbs: 0, Fats: 13, Category: "protein", Tags: []string{"fish"}},
		{Name: "tuna", Calories: 132, Protein: 28, Carbs: 0, Fats: 1, Category: "protein", Tags: []string{"fish"}},
		{Name: "eggs", Calories: 155, Protein: 13, Carbs: 1.1, Fats: 11, Category: "protein", Tags: []string{"eggs"}},
		{Name: "greek_yogurt", Calories: 59, Protein: 10, Carbs: 3.6, Fats: 0.4, Category: "protein", Tags: []string{"dairy"}},
		{Name: "cottage_cheese", Calories: 98, Protein: 11, Carbs: 3.4, Fats: 4.3, Category: "protein", Tags: []string{"dairy"}},
		{Name: "tofu", Calories: 76, Protein: 8, Carbs: 1.9, Fats: 4.8, Category: "protein", Tags: []string{"soy"}},
		{Name: "lentils", Calories: 116, Protein: 9, Carbs: 20, Fats: 0.4, Category: "protein"},
		{Name: "whey_protein", Calories: 120, Protein: 24, Carbs: 3, Fats: 1.5, Category: "protein", Tags: []string{"dairy"}},
		{Name: "paneer", Calories: 265, Protein: 18, Carbs: 1.2, Fats: 20, Category: "protein", Tags: []string{"dairy"}},
		{Name: "dal_tadka", Calories: 104, Protein: 7, Carbs: 17, Fats: 1, Category: "protein"},
		{Name: "chana_masala", Calories: 164, Protein: 8.9, Carbs: 27, Fats: 2.6, Category: "protein"},
		{Name: "rajma", Calories: 127, Protein: 8.7, Carbs: 22.8, Fats: 0.5, Category: "protein"},
		{Name: "chicken_curry", Calories: 180, Protein: 26, Carbs: 5, Fats: 6, Category: "protein", Tags: []string{"meat"}},
		{Name: "fish_curry", Calories: 150, Protein: 22, Carbs: 4, Fats: 5, Category: "protein", Tags: []string{"fish"}},

		// Carbohydrates
		{Name: "brown_rice", Calories: 111, Protein: 2.6, Carbs: 23, Fats: 0.9, Category: "carbs"},
		{Name: "white_rice", Calories: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, Category: "carbs"},
		{Name: "quinoa", Calories: 120, Protein: 4.4, Carbs: 21, Fats: 1.9, Category: "carbs"},
		{Name: "sweet_potato", Calories: 86, Protein: 1.6, Carbs: 20, Fats: 0.1, Category: "carbs"},
		{Name: "oatmeal", Calories: 389, Protein: 17, Carbs: 66, Fats: 7, Category: "carbs", Tags: []string{"gluten"}},
		{Name: "whole_wheat_bread", Calories: 247, Protein: 13, Carbs: 41, Fats: 3.4, Category: "carbs", Tags: []string{"gluten"}},
		{Name: "pasta", Calories: 131, Protein: 5, Carbs: 25, Fats: 1.1, Category: "carbs", Tags: []string{"gluten"}},
		{Name: "potato", Calories: 77, Protein: 2, Carbs: 17, Fats: 0.1, Category: "carbs"},
		{Name: "roti", Calories: 71, Protein: 3, Carbs: 15, Fats: 0.4, Category: "carbs", Tags: []string{"gluten"}},
		{Name: "dosa", Calories: 133, Protein: 2.6, Carbs: 22, Fats: 4, Category: "carbs"},
		{Name: "idli", Calories: 39, Protein: 2, Carbs: 8, Fats: 0.2, Category: "carbs"},
		{Name: "poha", Calories: 76, Protein: 1.8, Carbs: 16, Fats: 0.5, Category: "carbs"},

		// Healthy fats
		{Name: "avocado", Calories: 160, Protein: 2, Carbs: 9, Fats: 15, Category: "fats"},
		{Name: "almonds", Calories: 579, Protein: 21, Carbs: 22, Fats: 50, Category: "fats", Tags: []string{"nuts"}},
		{Name: "walnuts", Calories: 654, Protein: 15, Carbs: 14, Fats: 65, Category: "fats", Tags: []string{"nuts"}},
		{Name: "olive_oil", Calories: 884, Protein: 0, Carbs: 0, Fats: 100, Category: "fats"},
		{Name: "peanut_butter", Calories: 588, Protein: 25, Carbs: 20, Fats: 50, Category: "fats", Tags: []string{"nuts"}},
		{Name: "chia_seeds", Calories: 486, Protein: 17, Carbs: 42, Fats: 31, Category: "fats"},
		{Name: "flaxseed", Calories: 534, Protein: 18, Carbs: 29, Fats: 42, Category: "fats"},
		{Name: "ghee", Calories: 900, Protein: 0, Carbs: 0, Fats: 100, Category: "fats", Tags: []string{"dairy"}},
		{Name: "cashews", Calories: 553, Protein: 18, Carbs: 30, Fats: 44, Category: "fats", Tags: []string{"nuts"}},

		// Vegetables
		{Name: "broccoli", Calories: 34, Protein: 2.8, Carbs: 7, Fats: 0.4, Category: "vegetables"},
		{Name: "spinach", Calories: 23, Protein: 2.9, Carbs: 3.6, Fats: 0.4, Category: "vegetables"},
		{Name: "kale", Calories: 49, Protein: 4.3, Carbs: 9, Fats: 0.9, Category: "vegetables"},
		{Name: "carrots", Calories: 41, Protein: 0.9, Carbs: 10, Fats: 0.2, Category: "vegetables"},
		{Name: "bell_peppers", Calories: 31, Protein: 1, Carbs: 6, Fats: 0.3, Category: "vegetables"},
		{Name: "tomatoes", Calories: 18, Protein: 0.9, Carbs: 3.9, Fats: 0.2, Category: "vegetables"},
		{Name: "cucumber", Calories: 16, Protein: 0.7, Carbs: 3.6, Fats: 0.1, Category: "vegetables"},

		// Fruits
		{Name: "banana", Calories: 89, Protein: 1.1, Carbs: 23, Fats: 0.3, Category: "fruits"},
		{Name: "apple", Calories: 52, Protein: 0.3, Carbs: 14, Fats: 0.2, Category: "fruits"},
		{Name: "orange", Calories: 47, Protein: 0.9, Carbs: 12, Fats: 0.1, Category: "fruits"},
		{Name: "strawberries", Calories: 32, Protein: 0.7, Carbs: 7.7, Fats: 0.3, Category: "fruits"},
		{Name: "blueberries", Calories: 57, Protein: 0.7, Carbs: 14, Fats: 0.3, Category: "fruits"},
		{Name: "grapes", Calories: 69, Protein: 0.7, Carbs: 18, Fats: 0.2, Category: "fruits"},
		{Name: "watermelon", Calories: 30, Protein: 0.6, Carbs: 8, Fats: 0.2, Category: "fruits"},
	}}
}
