package quiz

import "hunger-insights/internal/domain"

// DefaultBankID names the built-in hunger facts bank.
const DefaultBankID = "hunger"

// DefaultBank returns the built-in hunger facts questions.
func DefaultBank() []domain.Question {
	return []domain.Question{
		{
			ID:            "q_hunger_count",
			Prompt:        "Roughly how many people are currently affected by hunger?",
			Options:       []string{"350 million people", "735 million people", "1.2 billion people", "2.4 billion people"},
			CorrectOption: "735 million people",
			Explanation:   "Recent UN estimates indicate about 735 million people face hunger. About 2.4 billion experience moderate to severe food insecurity.",
		},
		{
			ID:            "q_food_waste",
			Prompt:        "What share of global food output is lost or wasted each year?",
			Options:       []string{"10–15%", "20–25%", "30–40%", "45–50%"},
			CorrectOption: "30–40%",
			Explanation:   "Roughly one-third of all food produced (around 30–40%) is lost or wasted along the supply chain.",
		},
		{
			ID:            "q_region",
			Prompt:        "Which region has the highest rate of undernourishment?",
			Options:       []string{"South Asia", "Latin America", "Sub-Saharan Africa", "Southeast Asia"},
			CorrectOption: "Sub-Saharan Africa",
			Explanation:   "Sub-Saharan Africa has the highest prevalence of undernourishment compared with other regions.",
		},
		{
			ID:            "q_cause",
			Prompt:        "What most strongly drives chronic hunger worldwide?",
			Options:       []string{"Natural disasters", "Lack of food production", "Poverty and inequality", "Climate change"},
			CorrectOption: "Poverty and inequality",
			Explanation:   "The world produces enough food. Access is limited by poverty, inequality, conflict, and weak systems.",
		},
		{
			ID:            "q_cost",
			Prompt:        "What is the approximate annual cost to end hunger by 2030?",
			Options:       []string{"$7 billion", "$40 billion", "$100 billion", "$267 billion"},
			CorrectOption: "$267 billion",
			Explanation:   "UN analyses estimate about $267 billion per year would be needed globally until 2030, less than 1% of world GDP.",
		},
		{
			ID:            "q_rural",
			Prompt:        "What percentage of the world's hungry people live in rural areas?",
			Options:       []string{"50%", "65%", "80%", "95%"},
			CorrectOption: "80%",
			Explanation:   "Roughly 80% of people facing hunger live in rural regions, often depending on agriculture for livelihoods.",
		},
	}
}
