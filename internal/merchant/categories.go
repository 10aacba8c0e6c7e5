// Package merchant provides data-driven merchant name cleanup and
// category classification used by the forecast engine. All matching is
// table-based: flat ordered lists of pattern→label rules, first match wins.
package merchant

import "strings"

// Category is a display-level spending category.
type Category string

const (
	CategoryFoodAndDrink   Category = "Food & Drink"
	CategoryGroceries      Category = "Groceries"
	CategoryHousing        Category = "Housing"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryHealthcare     Category = "Healthcare"
	CategoryUtilities      Category = "Utilities"
	CategoryTravel         Category = "Travel"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryGifts          Category = "Gifts"
	CategoryEducation      Category = "Education"
	CategoryIncome         Category = "Income"
	CategoryTransfer       Category = "Transfer"
	CategoryOther          Category = "Other"
)

// feedCategoryAliases maps upstream feed category labels (Plaid-style
// personal finance categories and their older variants) onto our set.
var feedCategoryAliases = map[string]Category{
	"food and drink":                 CategoryFoodAndDrink,
	"restaurants":                    CategoryFoodAndDrink,
	"coffee":                         CategoryFoodAndDrink,
	"fast food":                      CategoryFoodAndDrink,
	"groceries":                      CategoryGroceries,
	"supermarkets and groceries":     CategoryGroceries,
	"rent":                           CategoryHousing,
	"mortgage":                       CategoryHousing,
	"rent and utilities":             CategoryHousing,
	"transportation":                 CategoryTransportation,
	"travel":                         CategoryTravel,
	"airlines and aviation services": CategoryTravel,
	"lodging":                        CategoryTravel,
	"entertainment":                  CategoryEntertainment,
	"recreation":                     CategoryEntertainment,
	"shops":                          CategoryShopping,
	"shopping":                       CategoryShopping,
	"general merchandise":            CategoryShopping,
	"healthcare":                     CategoryHealthcare,
	"medical":                        CategoryHealthcare,
	"utilities":                      CategoryUtilities,
	"service":                        CategoryUtilities,
	"telecommunication services":     CategoryUtilities,
	"personal care":                  CategoryPersonalCare,
	"gyms and fitness centers":       CategoryPersonalCare,
	"gift":                           CategoryGifts,
	"gifts and donations":            CategoryGifts,
	"education":                      CategoryEducation,
	"payroll":                        CategoryIncome,
	"income":                         CategoryIncome,
	"deposit":                        CategoryIncome,
	"interest":                       CategoryIncome,
	"transfer":                       CategoryTransfer,
	"payment":                        CategoryTransfer,
	"credit card":                    CategoryTransfer,
	"bank fees":                      CategoryOther,
}

// ParseFeedCategory resolves an upstream feed category hint to a Category.
// Unknown hints resolve to CategoryOther.
func ParseFeedCategory(hints []string) Category {
	for _, h := range hints {
		if c, ok := feedCategoryAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			return c
		}
	}
	return CategoryOther
}
