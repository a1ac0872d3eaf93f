package voice

import (
	"strings"

	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
)

// Classify maps a transcript to a task category with ordered keyword
// checks, first match wins, companion as the default. This is a
// deliberate stub-level heuristic; nothing downstream needs better.
func Classify(text string) *model.Command {
	message := strings.ToLower(text)

	if strings.Contains(message, "book") && containsAny(message, "ride", "taxi", "uber", "grab") {
		return &model.Command{Category: constant.CategoryRide, RawText: text}
	}

	if strings.Contains(message, "order") && containsAny(message, "food", "meal", "restaurant", "delivery") {
		return &model.Command{Category: constant.CategoryFood, RawText: text}
	}

	if strings.Contains(message, "order") && containsAny(message, "grocery", "groceries", "supermarket", "food shopping") {
		return &model.Command{Category: constant.CategoryGrocery, RawText: text}
	}

	if strings.Contains(message, "pay") && containsAny(message, "bill", "bills", "payment", "utilities") {
		return &model.Command{Category: constant.CategoryBills, RawText: text}
	}

	if containsAny(message, "companion", "chat", "talk", "conversation") {
		return &model.Command{Category: constant.CategoryCompanion, RawText: text}
	}

	return &model.Command{Category: constant.CategoryCompanion, RawText: text}
}

func containsAny(message string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}
