package remit

import (
	"fmt"
	"strconv"
)

// baseColumns is the fixed leading column set of the flattened table,
// one row per service loop.
var baseColumns = []string{
	"marker",
	"patient",
	"code",
	"modifier",
	"qualifier",
	"allowed_units",
	"billed_units",
	"transaction_date",
	"icn",
	"charge_amount",
	"allowed_amount",
	"paid_amount",
	"payer",
	"start_date",
	"end_date",
	"rendering_provider",
	"payer_classification",
	"was_forwarded",
}

// FlatTable is the one-row-per-service projection. Columns is the full
// ordered header: the fixed base columns followed by the dynamic
// adjustment, reference and remark columns sized to the widest row.
type FlatTable struct {
	Columns []string
	Rows    []map[string]string
}

// Record returns one row as an ordered slice aligned with Columns;
// cells a row never set come back "".
func (t *FlatTable) Record(row map[string]string) []string {
	record := make([]string, len(t.Columns))
	for i, column := range t.Columns {
		record[i] = row[column]
	}
	return record
}

// Flatten projects the document to one row per service loop. Claims
// without services contribute nothing. Payer resolution must succeed,
// so a document with zero or multiple payer organizations fails here
// even though it built fine.
func (ts *TransactionSet) Flatten() (*FlatTable, error) {
	payer, err := ts.Payer()
	if err != nil {
		return nil, err
	}

	table := &FlatTable{Rows: []map[string]string{}}
	maxAdjustments, maxReferences, maxRemarks := 0, 0, 0

	for _, claim := range ts.Claims {
		for _, service := range claim.Services {
			row := ts.serviceRow(payer, claim, service)

			for i, adjustment := range service.Adjustments {
				row[fmt.Sprintf("adj_%d_group", i)] = adjustment.GroupCode
				row[fmt.Sprintf("adj_%d_code", i)] = adjustment.ReasonCode
				row[fmt.Sprintf("adj_%d_amount", i)] = adjustment.Amount
			}
			for i, reference := range service.References {
				row[fmt.Sprintf("ref_%d_qual", i)] = reference.Qualifier
				row[fmt.Sprintf("ref_%d_value", i)] = reference.Value
			}
			for i, remark := range service.Remarks {
				row[fmt.Sprintf("rem_%d_qual", i)] = remark.Qualifier
				row[fmt.Sprintf("rem_%d_code", i)] = remark.Code
			}

			maxAdjustments = max(maxAdjustments, len(service.Adjustments))
			maxReferences = max(maxReferences, len(service.References))
			maxRemarks = max(maxRemarks, len(service.Remarks))
			table.Rows = append(table.Rows, row)
		}
	}

	table.Columns = append(table.Columns, baseColumns...)
	for i := 0; i < maxAdjustments; i++ {
		table.Columns = append(table.Columns,
			fmt.Sprintf("adj_%d_group", i),
			fmt.Sprintf("adj_%d_code", i),
			fmt.Sprintf("adj_%d_amount", i))
	}
	for i := 0; i < maxReferences; i++ {
		table.Columns = append(table.Columns,
			fmt.Sprintf("ref_%d_qual", i),
			fmt.Sprintf("ref_%d_value", i))
	}
	for i := 0; i < maxRemarks; i++ {
		table.Columns = append(table.Columns,
			fmt.Sprintf("rem_%d_qual", i),
			fmt.Sprintf("rem_%d_code", i))
	}
	return table, nil
}

// serviceRow fills the base columns for one service. Period dates fall
// back from the service loop to the claim statement period and stay ""
// when neither reports one.
func (ts *TransactionSet) serviceRow(payer *OrganizationLoop, claim *ClaimLoop, service *ServiceLoop) map[string]string {
	startDate := ""
	if d := service.PeriodStart(); d != nil {
		startDate = d.Raw
	} else if d := claim.StatementPeriodStart(); d != nil {
		startDate = d.Raw
	}
	endDate := ""
	if d := service.PeriodEnd(); d != nil {
		endDate = d.Raw
	} else if d := claim.StatementPeriodEnd(); d != nil {
		endDate = d.Raw
	}

	return map[string]string{
		"marker":               claim.Claim.PatientControlNumber,
		"patient":              claim.Patient().Name(),
		"code":                 service.Service.Code,
		"modifier":             service.Service.Modifier,
		"qualifier":            service.Service.Qualifier,
		"allowed_units":        strconv.Itoa(service.Service.AllowedUnits),
		"billed_units":         strconv.Itoa(service.Service.BilledUnits),
		"transaction_date":     ts.FinancialInformation.TransactionDate,
		"icn":                  claim.Claim.ControlNumber,
		"charge_amount":        service.Service.ChargeAmount,
		"allowed_amount":       service.AllowedAmount(),
		"paid_amount":          service.Service.PaymentAmount,
		"payer":                payer.Organization.Name,
		"start_date":           startDate,
		"end_date":             endDate,
		"rendering_provider":   claim.RenderingProvider().Name(),
		"payer_classification": claim.Claim.PayerClassification,
		"was_forwarded":        strconv.FormatBool(claim.Claim.Forwarded),
	}
}
