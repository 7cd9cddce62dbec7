package model

// ModelName is the closed set of model identifiers.
type ModelName string

const (
	ModelAlexNet ModelName = "alexnet"
	ModelResNet  ModelName = "resnet"
	ModelLeNet   ModelName = "lenet"
)

// ModelNames lists every ModelName in declaration order.
func ModelNames() []ModelName {
	return []ModelName{ModelAlexNet, ModelResNet, ModelLeNet}
}

// FilterParams is the query filter accepted by the item listing. Undeclared
// query keys are rejected.
type FilterParams struct {
	Limit   int      `query:"limit" json:"limit" default:"100" validate:"gt=0,lte=100" exclusiveMinimum:"0" maximum:"100"`
	Offset  int      `query:"offset" json:"offset" default:"0" validate:"gte=0" minimum:"0"`
	OrderBy string   `query:"order_by" json:"order_by" default:"created_at" validate:"oneof=created_at updated_at" enum:"created_at,updated_at"`
	Tags    []string `query:"tags" json:"tags"`
}

func (FilterParams) ForbidExtra() bool { return true }

// CommonQueryParams is the shared q/skip/limit triple.
type CommonQueryParams struct {
	Q     *string `query:"q" json:"q"`
	Skip  int     `query:"skip" json:"skip" default:"0"`
	Limit int     `query:"limit" json:"limit" default:"100"`
}

// Cookies are the tracking cookies the API understands.
type Cookies struct {
	SessionID       *string `cookie:"session_id" json:"session_id"`
	FacebookTracker *string `cookie:"facebook_tracker" json:"facebook_tracker"`
	GoogleTracker   *string `cookie:"google_tracker" json:"google_tracker"`
}

// CommonHeaders collects User-Agent and every X-Token header in arrival
// order.
type CommonHeaders struct {
	UserAgent *string  `header:"User-Agent" json:"user_agent"`
	XToken    []string `header:"X-Token" json:"x_token"`
}
