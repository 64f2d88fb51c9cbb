package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators wires domain validations into gin's binding
// engine. "caldate" checks the calendar-date form used everywhere
// ("YYYY-MM-DD"); "slottime" checks membership in the booking slot grid.
func RegisterCustomValidators(slots []string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("caldate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	slotSet := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		slotSet[s] = struct{}{}
	}

	return v.RegisterValidation("slottime", func(fl validator.FieldLevel) bool {
		_, ok := slotSet[fl.Field().String()]
		return ok
	})
}
