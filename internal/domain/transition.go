package domain

import (
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/errorx"
	"golang.org/x/exp/slices"
)

type reviewAction int

const (
	actionApprove reviewAction = iota
	actionReject
	actionHold
)

func (a reviewAction) String() string {
	switch a {
	case actionApprove:
		return "approve"
	case actionReject:
		return "reject"
	case actionHold:
		return "hold"
	}

	return "unknown"
}

type ledgerOp int

const (
	ledgerNone ledgerOp = iota
	ledgerGrant
	ledgerUpdate
	ledgerForfeit
)

type reportOp int

const (
	reportNone reportOp = iota
	reportInsert
	reportClear
)

type wineOp int

const (
	wineNone wineOp = iota
	wineDowngrade
)

// reviewSources lists the statuses each action may start from. DELETED rows belong to
// legacy tooling and are frozen.
var reviewSources = map[reviewAction][]entity.PriceStatus{
	actionApprove: {entity.PriceWaiting, entity.PricePassBeforeReview, entity.PricePass, entity.PriceReject},
	actionReject:  {entity.PriceWaiting, entity.PricePassBeforeReview, entity.PricePass, entity.PriceReject},
	actionHold:    {entity.PriceWaiting, entity.PricePassBeforeReview, entity.PricePass, entity.PriceReject},
}

// reviewState is what the executor read under the row lock.
type reviewState struct {
	status       entity.PriceStatus
	wineStatus   entity.WineStatus
	reward       *entity.PointHistory
	activeReport *entity.Report
}

type reviewInput struct {
	action reviewAction
	target entity.PriceStatus
	point  *int64
	note   string
	reason string
}

// reviewPlan is the unit of work of one transition. The executor applies the ledger, the
// report and the wine operations in this order and writes status last.
type reviewPlan struct {
	noop bool

	ledger ledgerOp
	point  int64
	note   string

	report reportOp
	reason string

	wine wineOp

	status entity.PriceStatus
}

func validateReviewInput(in reviewInput) error {
	switch in.action {
	case actionApprove:
		if in.point != nil && *in.point < 0 {
			return errorx.New(errorx.BadRequest, "Point must be non-negative")
		}
	case actionReject:
		if in.reason == "" {
			return errorx.New(errorx.BadRequest, "Not allow empty reason")
		}
	case actionHold:
		if in.target != entity.PriceWaiting && in.target != entity.PricePassBeforeReview {
			return errorx.New(errorx.BadRequest, "Invalid hold status %s", in.target)
		}
	default:
		return errorx.New(errorx.BadRequest, "Unknown review action")
	}

	return nil
}

func planReview(state reviewState, in reviewInput) (reviewPlan, error) {
	if err := validateReviewInput(in); err != nil {
		return reviewPlan{}, err
	}

	if !slices.Contains(reviewSources[in.action], state.status) {
		return reviewPlan{}, errorx.New(errorx.IllegalTransition,
			"Cannot %s a price in status %s", in.action, state.status)
	}

	switch in.action {
	case actionApprove:
		return planApprove(state, in), nil
	case actionReject:
		return planReject(state, in), nil
	default:
		return reviewPlan{status: in.target}, nil
	}
}

func planApprove(state reviewState, in reviewInput) reviewPlan {
	plan := reviewPlan{report: reportClear, status: entity.PricePass}

	givenPoint := in.point != nil && *in.point != 0
	switch {
	case state.reward == nil && (givenPoint || in.note != ""):
		plan.ledger = ledgerGrant
		if in.point != nil {
			plan.point = *in.point
		}
		plan.note = in.note

	case state.reward != nil && (in.point != nil || in.note != ""):
		plan.ledger = ledgerUpdate
		plan.point = state.reward.Point
		if in.point != nil {
			plan.point = *in.point
		}
		plan.note = state.reward.Note
		if in.note != "" {
			plan.note = in.note
		}
	}

	if state.wineStatus == entity.WineWaiting {
		plan.wine = wineDowngrade
	}

	return plan
}

func planReject(state reviewState, in reviewInput) reviewPlan {
	if state.status == entity.PriceReject &&
		state.activeReport != nil &&
		state.activeReport.Reason == in.reason {
		return reviewPlan{noop: true, status: entity.PriceReject}
	}

	plan := reviewPlan{report: reportInsert, reason: in.reason, status: entity.PriceReject}
	if state.reward != nil {
		plan.ledger = ledgerForfeit
	}

	return plan
}
