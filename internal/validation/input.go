package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxSkillLength    = 50
	MaxSkillsCount    = 50
	MaxMessageLength  = 5000
	MaxDurationLength = 100
	MaxPurposeLength  = 200
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateSkills проверяет уже нормализованный список навыков.
func ValidateSkills(fieldName string, skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("%s: количество навыков не может превышать %d", fieldName, MaxSkillsCount)
	}
	for _, skill := range skills {
		if utf8.RuneCountInString(skill) > MaxSkillLength {
			return fmt.Errorf("%s: навык не может быть длиннее %d символов", fieldName, MaxSkillLength)
		}
	}
	return nil
}

// ValidateMessage проверяет необязательное сообщение к заявке.
func ValidateMessage(content string) error {
	return ValidateLength("сообщение", strings.TrimSpace(content), 0, MaxMessageLength)
}
