package messages

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"max.ks1230/income-planner/internal/entity/household"
	"max.ks1230/income-planner/internal/model/coordinator"
	"max.ks1230/income-planner/internal/model/tax"
)

const commandParts = 2

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if len(split) == commandParts && strings.HasPrefix(split[0], "/") {
		return split[0], strings.TrimSpace(split[1])
	}
	if strings.HasPrefix(text, "/") {
		return text, ""
	}
	return "", text
}

func decodeIdentity(raw json.RawMessage) (household.Identity, bool) {
	var data household.FamilyData
	if err := json.Unmarshal(raw, &data); err != nil {
		return household.Identity{}, false
	}
	return household.IdentityFromFamily(data)
}

func userIDFromOwner(ownerID string) (int64, bool) {
	id, err := strconv.ParseInt(ownerID, 10, 64)
	return id, err == nil
}

func formatStatus(status coordinator.Status, years int) string {
	res := []string{fmt.Sprintf("Sync state: %s", status.State)}
	if status.State == coordinator.Synced || status.State == coordinator.Error {
		res = append(res, fmt.Sprintf("Years planned: %d", years))
	}
	if status.Err != nil {
		res = append(res, fmt.Sprintf("Last problem: %s", status.Err))
	}
	return strings.Join(res, "\n")
}

func formatBreakdown(b tax.Breakdown, net int) string {
	line := func(name string, v decimal.Decimal) string {
		return fmt.Sprintf("%s: %s", name, v.StringFixed(2))
	}
	return strings.Join([]string{
		line("Gross", b.Gross),
		line("Salary deduction", b.SalaryDeduction),
		line("Taxable", b.Taxable),
		line("Income tax", b.IncomeTax),
		line("Resident tax", b.ResidentTax),
		line("Social insurance", b.SocialInsurance),
		"",
		fmt.Sprintf("Net: %d", net),
	}, "\n")
}
