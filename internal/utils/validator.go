package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/soma-study/exam-service/internal/models"
)

// Validator wraps go-playground struct validation with the domain's custom
// enum validators registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate runs struct-tag validation.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("exam_type", validateExamType)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("time_intensity", validateTimeIntensity)

	// Report json field names in validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateExamType(fl validator.FieldLevel) bool {
	return models.ExamType(fl.Field().String()).IsValid()
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	return models.Difficulty(fl.Field().String()).IsValid()
}

func validateTimeIntensity(fl validator.FieldLevel) bool {
	return models.TimeIntensity(fl.Field().String()).IsValid()
}
