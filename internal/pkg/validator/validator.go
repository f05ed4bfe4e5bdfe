package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/building-analyzer/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("era", validateEra)
	_ = validate.RegisterValidation("import_kind", validateImportKind)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// validateEra - пустое значение допустимо, иначе ключ или отображаемое имя эпохи
func validateEra(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	_, ok := domain.ResolveEra(v)
	return ok
}

func validateImportKind(fl validator.FieldLevel) bool {
	return domain.ImportKind(fl.Field().String()).Valid()
}
