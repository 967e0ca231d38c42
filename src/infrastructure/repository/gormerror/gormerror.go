package gormerror

import (
	"encoding/json"
	"errors"
	"strings"

	domainErrors "go-mailing-api/src/domain/errors"

	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// IsDuplicate reports whether err is a unique constraint violation on any supported driver
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	byteErr, _ := json.Marshal(err)
	var newError domainErrors.GormErr
	if json.Unmarshal(byteErr, &newError) == nil && newError.Number == mysqlDuplicateEntry {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// Translate converts a gorm error into the AppError returned by repositories
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainErrors.NewAppErrorWithType(domainErrors.NotFound)
	case IsDuplicate(err):
		return domainErrors.NewAppErrorWithType(domainErrors.ResourceAlreadyExists)
	}
	return domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
}

// MapColumns renames JSON field names to column names; unknown keys are dropped
func MapColumns(fields map[string]interface{}, mapping map[string]string) map[string]interface{} {
	updateData := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if column, ok := mapping[k]; ok {
			updateData[column] = v
		}
	}
	return updateData
}
