package plan_fx

import (
	"log"

	"go.uber.org/fx"
	"uplevel/internal/api/controllers"
	"uplevel/pkg/compplan"
)

var Module = fx.Provide(
	providePlan, providePlanController,
)

// providePlan loads and validates the compensation plan once; an invalid
// plan aborts startup before any engine can use it.
func providePlan() (compplan.Plan, error) {
	plan := compplan.Default()

	warnings, err := compplan.Validate(plan)
	if err != nil {
		return compplan.Plan{}, err
	}
	for _, warning := range warnings {
		log.Printf("compensation plan warning: %s", warning)
	}

	return plan, nil
}

func providePlanController(plan compplan.Plan) *controllers.PlanController {
	warnings, _ := compplan.Validate(plan)
	return controllers.NewPlanController(plan, warnings)
}
