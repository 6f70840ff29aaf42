package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedReferenceData populates the taxonomy tables on first start.
// Each table is seeded independently so a partially seeded database
// converges on restart.
func SeedReferenceData(db *gorm.DB) error {
	if err := seedCategories(db); err != nil {
		return err
	}
	if err := seedDifficulties(db); err != nil {
		return err
	}
	if err := seedUnits(db); err != nil {
		return err
	}
	if err := seedTags(db); err != nil {
		return err
	}
	return seedDietaryPreferences(db)
}

func seedCategories(db *gorm.DB) error {
	var count int64
	db.Model(&CategoryModel{}).Count(&count)
	if count > 0 {
		return nil
	}

	categories := []CategoryModel{
		{Name: "Breakfast", Description: "Start the day right"},
		{Name: "Lunch", Description: "Midday meals"},
		{Name: "Dinner", Description: "Main evening dishes"},
		{Name: "Appetizers", Description: "Small bites and starters"},
		{Name: "Soups", Description: "Broths, stews and chowders"},
		{Name: "Salads", Description: "Fresh and hearty salads"},
		{Name: "Desserts", Description: "Sweet treats"},
		{Name: "Drinks", Description: "Smoothies, cocktails and more"},
	}
	for i := range categories {
		categories[i].ID = uuid.New()
	}
	return db.Create(&categories).Error
}

func seedDifficulties(db *gorm.DB) error {
	var count int64
	db.Model(&DifficultyModel{}).Count(&count)
	if count > 0 {
		return nil
	}

	difficulties := []DifficultyModel{
		{Name: "Easy", SortOrder: 1},
		{Name: "Medium", SortOrder: 2},
		{Name: "Hard", SortOrder: 3},
	}
	for i := range difficulties {
		difficulties[i].ID = uuid.New()
	}
	return db.Create(&difficulties).Error
}

func seedUnits(db *gorm.DB) error {
	var count int64
	db.Model(&UnitModel{}).Count(&count)
	if count > 0 {
		return nil
	}

	units := []UnitModel{
		{Name: "gram", Abbreviation: "g"},
		{Name: "kilogram", Abbreviation: "kg"},
		{Name: "milliliter", Abbreviation: "ml"},
		{Name: "liter", Abbreviation: "l"},
		{Name: "teaspoon", Abbreviation: "tsp"},
		{Name: "tablespoon", Abbreviation: "tbsp"},
		{Name: "cup", Abbreviation: "cup"},
		{Name: "piece", Abbreviation: "pc"},
		{Name: "pinch", Abbreviation: "pinch"},
	}
	for i := range units {
		units[i].ID = uuid.New()
	}
	return db.Create(&units).Error
}

func seedTags(db *gorm.DB) error {
	var count int64
	db.Model(&TagModel{}).Count(&count)
	if count > 0 {
		return nil
	}

	tags := []TagModel{
		{Name: "quick"}, {Name: "budget"}, {Name: "family"},
		{Name: "spicy"}, {Name: "comfort-food"}, {Name: "healthy"},
		{Name: "one-pot"}, {Name: "grill"},
	}
	for i := range tags {
		tags[i].ID = uuid.New()
	}
	return db.Create(&tags).Error
}

func seedDietaryPreferences(db *gorm.DB) error {
	var count int64
	db.Model(&DietaryPreferenceModel{}).Count(&count)
	if count > 0 {
		return nil
	}

	prefs := []DietaryPreferenceModel{
		{Name: "Vegetarian", Description: "No meat or fish"},
		{Name: "Vegan", Description: "No animal products"},
		{Name: "Gluten-Free", Description: "No gluten-containing grains"},
		{Name: "Dairy-Free", Description: "No milk products"},
		{Name: "Keto", Description: "Low carbohydrate, high fat"},
		{Name: "Paleo", Description: "Whole foods, no processed grains"},
	}
	for i := range prefs {
		prefs[i].ID = uuid.New()
	}
	return db.Create(&prefs).Error
}
