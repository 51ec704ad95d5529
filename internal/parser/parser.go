package parser

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"migo/pkg/stack"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Parse reads and validates a stack YAML file, returning the parsed Stack
// struct or an error. An empty path yields the built-in default stack.
func Parse(filePath string) (*stack.Stack, error) {
	if filePath == "" {
		return stack.Default(), nil
	}

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("stack file not found: %s", filePath)
	}

	// Configure Viper
	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("stack file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to read stack file: %w", err)
	}

	// Unmarshal into Stack struct
	var s stack.Stack
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse stack file - malformed YAML: %w", err)
	}

	applyDefaults(&s)

	// Validate the structure
	if err := validate.Struct(&s); err != nil {
		return nil, formatValidationError(err)
	}

	return &s, nil
}

// ResolveDSN picks the connection string for database operations. Precedence:
// the --dsn flag, the DATABASE_DSN environment variable (a .env file in the
// working directory is honored), the stack file, then the built-in default.
func ResolveDSN(s *stack.Stack, flagDSN string) string {
	if flagDSN != "" {
		return flagDSN
	}

	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	if envDSN := os.Getenv("DATABASE_DSN"); envDSN != "" {
		return envDSN
	}

	if s != nil && s.DSN != "" {
		return s.DSN
	}

	return stack.DefaultDSN
}

// applyDefaults fills in the fields a partial stack file left out.
func applyDefaults(s *stack.Stack) {
	if s.Database.Name == "" {
		s.Database.Name = stack.DefaultContainerName
	}
	if s.Database.Image == "" {
		s.Database.Image = stack.DefaultImage
	}
	if s.Database.Port.Host == 0 {
		s.Database.Port.Host = stack.DefaultPort
	}
	if s.Database.Port.Container == 0 {
		s.Database.Port.Container = stack.DefaultPort
	}
	if s.Database.Env == nil {
		s.Database.Env = stack.Default().Database.Env
	}
	if s.Migrations.Dir == "" {
		s.Migrations.Dir = stack.DefaultMigrationsDir
	}
	if s.DSN == "" {
		s.DSN = stack.DefaultDSN
	}
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, formatFieldError(e))
		}

		if len(errorMessages) == 1 {
			return fmt.Errorf("validation error: %s", errorMessages[0])
		}

		result := "validation errors:\n"
		for _, msg := range errorMessages {
			result += fmt.Sprintf("  - %s\n", msg)
		}
		return fmt.Errorf("%s", result)
	}
	return fmt.Errorf("validation failed: %w", err)
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "min", "max":
		return fmt.Sprintf("field '%s' is out of range (%s=%s)", field, tag, e.Param())
	case "uri":
		return fmt.Sprintf("field '%s' must be a valid URI", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, tag)
	}
}
