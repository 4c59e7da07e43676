package services

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/adanyl0v/go-task-api/internal/models"
)

const tagSeparator = ", "

// NormalizeTags splits raw on commas, trims every token, drops empty
// tokens and duplicates, and joins the sorted result with ", ".
// It returns nil when raw holds no tokens.
func NormalizeTags(raw string) *string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}

	slices.Sort(tags)
	joined := strings.Join(tags, tagSeparator)
	return &joined
}

func validateText(field, value string, maxLength int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", newValidationError(field, fmt.Sprintf("%s is required", field))
	}
	if utf8.RuneCountInString(value) > maxLength {
		return "", newValidationError(field,
			fmt.Sprintf("%s must be at most %d characters", field, maxLength))
	}
	return value, nil
}

func validateStatus(value string) (models.Status, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", newValidationError("status", "status is required")
	}

	status := models.Status(value)
	if !status.Valid() {
		return "", newValidationError("status",
			fmt.Sprintf("status must be one of %s", joinStatuses()))
	}
	return status, nil
}

func validateTags(tags *string) error {
	if tags != nil && utf8.RuneCountInString(*tags) > models.TagsMaxLength {
		return newValidationError("tags",
			fmt.Sprintf("tags must be at most %d characters", models.TagsMaxLength))
	}
	return nil
}

func joinStatuses() string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
