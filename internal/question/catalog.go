package question

import (
	"fmt"
	"slices"
)

// CategoryID identifies a standard practice category.
type CategoryID string

const (
	CategoryDSA      CategoryID = "dsa"
	CategoryCoding   CategoryID = "coding"
	CategoryAptitude CategoryID = "aptitude"
	CategoryTips     CategoryID = "tips-and-tricks"
)

// Category describes a standard practice category.
type Category struct {
	ID   CategoryID
	Name string

	// NeedsLanguage is true for categories whose questions involve code.
	NeedsLanguage bool

	// Endless categories advance indefinitely and never complete.
	Endless bool
}

// Categories lists every standard practice category in menu order.
var Categories = []Category{
	{ID: CategoryDSA, Name: "Data Structures & Algorithms", NeedsLanguage: true, Endless: true},
	{ID: CategoryCoding, Name: "Coding", NeedsLanguage: true},
	{ID: CategoryAptitude, Name: "Aptitude"},
	{ID: CategoryTips, Name: "Tips and Tricks"},
}

// LookupCategory returns the category with the given id.
func LookupCategory(id CategoryID) (Category, error) {
	for _, c := range Categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("unknown category %q", id)
}

// Difficulty is the requested difficulty of a question.
type Difficulty string

const (
	Easy     Difficulty = "Easy"
	Moderate Difficulty = "Moderate"
	Hard     Difficulty = "Hard"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{Easy, Moderate, Hard}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// Languages lists the programming languages a session can target.
var Languages = []string{"JavaScript", "Python", "Java", "C++"}

// DefaultLanguage is used for dsa sessions started without a language.
const DefaultLanguage = "JavaScript"

// ValidLanguage reports whether lang is one of Languages.
func ValidLanguage(lang string) bool {
	return slices.Contains(Languages, lang)
}

// Question counts per session.
const (
	CodingQuestionCount  = 20
	DefaultQuestionCount = 10
	DailyQuestionCount   = 20
)

// TotalQuestions returns the number of questions in a standard session of
// the given category. For endless categories the value is only a display
// denominator.
func TotalQuestions(id CategoryID) int {
	if id == CategoryCoding {
		return CodingQuestionCount
	}
	return DefaultQuestionCount
}

// DailyBatch is one sub-batch of the daily quiz.
type DailyBatch struct {
	Topic      string
	Difficulty Difficulty
	Count      int
}

// DailyBatches is the fixed composition of the daily quiz, in fetch order.
var DailyBatches = []DailyBatch{
	{Topic: "Aptitude", Difficulty: Moderate, Count: 5},
	{Topic: "Data Structures & Algorithms", Difficulty: Moderate, Count: 5},
	{Topic: "General Coding Concepts", Difficulty: Easy, Count: 5},
	{Topic: "Top MNC Interview Questions", Difficulty: Hard, Count: 5},
}
