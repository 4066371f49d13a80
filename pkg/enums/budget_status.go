package enums

// BudgetStatus classifies the current month's carbon usage against the
// user-defined budget.
type BudgetStatus string

const (
	BudgetStatusUnset BudgetStatus = "unset"
	BudgetStatusGreen BudgetStatus = "green"
	BudgetStatusAmber BudgetStatus = "amber"
	BudgetStatusRed   BudgetStatus = "red"
)

// String implements fmt.Stringer.
func (b BudgetStatus) String() string {
	return string(b)
}
