package elements

// Organization entity types resolved from N1/NM1 entity identifier
// codes. An organization loop whose code maps to none of these is
// still built, with an empty type.
const (
	EntityPayer               = "payer"
	EntityPayee               = "payee"
	EntityPatient             = "patient"
	EntityInsured             = "insured"
	EntityCorrectedPatient    = "corrected patient"
	EntityRenderingProvider   = "rendering provider"
	EntityCrossoverCarrier    = "crossover carrier"
	EntityCorrectedPriorPayer = "corrected prior payer"
)

// EntityIdentifiers maps X12 entity identifier codes to the entity
// type they denote in an 835.
var EntityIdentifiers = map[string]string{
	"PR":  EntityPayer,
	"PE":  EntityPayee,
	"QC":  EntityPatient,
	"IL":  EntityInsured,
	"74":  EntityCorrectedPatient,
	"82":  EntityRenderingProvider,
	"TT":  EntityCrossoverCarrier,
	"PRP": EntityCorrectedPriorPayer,
}

// EntityType resolves an entity identifier code, returning "" when the
// code maps to no known entity.
func EntityType(code string) string {
	return EntityIdentifiers[code]
}

// Payer classifications derived from the CLP02 claim status code.
const (
	ClassificationPrimary   = "primary"
	ClassificationSecondary = "secondary"
	ClassificationTertiary  = "tertiary"
	ClassificationDenial    = "denial"
	ClassificationUnknown   = "unknown"
)

type claimStatus struct {
	Classification string
	Forwarded      bool
}

var claimStatuses = map[string]claimStatus{
	"1":  {ClassificationPrimary, false},
	"2":  {ClassificationSecondary, false},
	"3":  {ClassificationTertiary, false},
	"4":  {ClassificationDenial, false},
	"19": {ClassificationPrimary, true},
	"20": {ClassificationSecondary, true},
	"21": {ClassificationTertiary, true},
	"22": {ClassificationUnknown, false},
	"23": {ClassificationUnknown, true},
}

// ClaimStatus resolves a CLP02 status code into a payer classification
// plus the crossover-forwarded flag. Unknown codes classify as
// "unknown", never an error.
func ClaimStatus(code string) (classification string, forwarded bool) {
	if status, ok := claimStatuses[code]; ok {
		return status.Classification, status.Forwarded
	}
	return ClassificationUnknown, false
}

// ContactFunctionCodes describes PER01 values commonly seen in 835s.
var ContactFunctionCodes = map[string]string{
	"BL": "billing contact",
	"CX": "correspondence contact",
	"IC": "information contact",
	"TE": "technical contact",
}

// CommunicationQualifiers describes PER communication number
// qualifiers.
var CommunicationQualifiers = map[string]string{
	"TE": "telephone",
	"FX": "facsimile",
	"UR": "uniform resource locator (URL)",
	"EM": "electronic mail",
	"EX": "telephone extension",
}

// DateQualifiers describes DTM01 values.
var DateQualifiers = map[string]string{
	"050": "received",
	"150": "service period start",
	"151": "service period end",
	"232": "claim statement period start",
	"233": "claim statement period end",
	"405": "production",
	"472": "service",
}

// DTM01 qualifier codes the loop builder inspects directly.
const (
	DateQualReceived    = "050"
	DateQualPeriodStart = "150"
	DateQualPeriodEnd   = "151"
	DateQualClaimStart  = "232"
	DateQualClaimEnd    = "233"
	DateQualService     = "472"
)

// AmountQualifiers describes AMT01 values.
var AmountQualifiers = map[string]string{
	"AU": "coverage amount",
	"B6": "allowed - actual",
	"F5": "patient amount paid",
	"I":  "interest",
	"T":  "tax",
	"T2": "total claim before taxes",
	"ZK": "federal medicare or medicaid payment mandate - category 1",
	"ZL": "federal medicare or medicaid payment mandate - category 2",
}

// AMT01 qualifier for the service-level allowed amount.
const AmountQualAllowed = "B6"

// ReferenceQualifiers describes REF01 values.
var ReferenceQualifiers = map[string]string{
	"0K": "policy form identifying number",
	"1K": "payor's claim number",
	"1L": "group or policy number",
	"28": "employee identification number",
	"6R": "provider control number",
	"BB": "authorization number",
	"CE": "class of contract code",
	"EA": "medical record identification number",
	"F8": "original reference number",
	"G1": "prior authorization number",
	"G3": "predetermination of benefits identification number",
	"IG": "insurance policy number",
	"LU": "location number",
	"SY": "social security number",
	"TJ": "federal taxpayer's identification number",
}

// RemarkQualifiers describes LQ01 values.
var RemarkQualifiers = map[string]string{
	"HE": "claim payment remark codes",
	"RX": "NCPDP reject/payment codes",
}

// AdjustmentGroupCodes describes CAS01 values.
var AdjustmentGroupCodes = map[string]string{
	"CO": "contractual obligations",
	"CR": "correction and reversals",
	"OA": "other adjustments",
	"PI": "payer initiated reductions",
	"PR": "patient responsibility",
}
