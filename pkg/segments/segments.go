// Package segments holds the typed record layer of the 835 parser:
// one struct per segment tag, parsed positionally from a raw
// tokenizer.Segment, plus the positional catalog used to render
// segments under stable field names.
package segments

import (
	"strings"
	"time"

	"github.com/oarkflow/edi835/pkg/elements"
	"github.com/oarkflow/edi835/pkg/tokenizer"
)

// Segment tags recognized by the parser.
const (
	TagInterchange          = "ISA"
	TagFunctionalGroup      = "GS"
	TagTransactionHeader    = "ST"
	TagFinancialInformation = "BPR"
	TagTrace                = "TRN"
	TagDate                 = "DTM"
	TagOrganization         = "N1"
	TagAddress              = "N3"
	TagLocation             = "N4"
	TagContact              = "PER"
	TagReference            = "REF"
	TagAssignedNumber       = "LX"
	TagClaim                = "CLP"
	TagAdjustment           = "CAS"
	TagEntity               = "NM1"
	TagAmount               = "AMT"
	TagService              = "SVC"
	TagRemark               = "LQ"
	TagProviderAdjustment   = "PLB"
	TagTransactionTrailer   = "SE"
	TagGroupTrailer         = "GE"
	TagInterchangeTrailer   = "IEA"
)

// Interchange is the ISA envelope opener.
type Interchange struct {
	Source             tokenizer.Segment
	SenderQualifier    string
	SenderID           string
	ReceiverQualifier  string
	ReceiverID         string
	Date               string
	Time               string
	ControlNumber      string
	UsageIndicator     string
	ComponentSeparator string
}

func ParseInterchange(seg tokenizer.Segment) *Interchange {
	return &Interchange{
		Source:             seg,
		SenderQualifier:    elements.Identifier(seg.Element(5)),
		SenderID:           elements.Identifier(seg.Element(6)),
		ReceiverQualifier:  elements.Identifier(seg.Element(7)),
		ReceiverID:         elements.Identifier(seg.Element(8)),
		Date:               seg.Element(9),
		Time:               seg.Element(10),
		ControlNumber:      seg.Element(13),
		UsageIndicator:     seg.Element(15),
		ComponentSeparator: seg.Element(16),
	}
}

// FinancialInformation is the BPR payment summary.
type FinancialInformation struct {
	Source              tokenizer.Segment
	TransactionHandling string
	Amount              string
	CreditDebitFlag     string
	PaymentMethod       string
	TransactionDate     string
}

func ParseFinancialInformation(seg tokenizer.Segment) *FinancialInformation {
	return &FinancialInformation{
		Source:              seg,
		TransactionHandling: seg.Element(1),
		Amount:              elements.Decimal(seg.Element(2)),
		CreditDebitFlag:     seg.Element(3),
		PaymentMethod:       seg.Element(4),
		TransactionDate:     seg.Element(16),
	}
}

// Trace is the TRN reassociation trace number.
type Trace struct {
	Source                  tokenizer.Segment
	Type                    string
	Number                  string
	OriginatingCompany      string
	OriginatingSupplemental string
}

func ParseTrace(seg tokenizer.Segment) *Trace {
	return &Trace{
		Source:                  seg,
		Type:                    seg.Element(1),
		Number:                  seg.Element(2),
		OriginatingCompany:      seg.Element(3),
		OriginatingSupplemental: seg.Element(4),
	}
}

// Organization is the N1 loop header.
type Organization struct {
	Source      tokenizer.Segment
	EntityCode  string
	Type        string
	Name        string
	IDQualifier string
	IDCode      string
}

func ParseOrganization(seg tokenizer.Segment) *Organization {
	code := seg.Element(1)
	return &Organization{
		Source:      seg,
		EntityCode:  code,
		Type:        elements.EntityType(code),
		Name:        seg.Element(2),
		IDQualifier: seg.Element(3),
		IDCode:      seg.Element(4),
	}
}

// Address is the N3 street address.
type Address struct {
	Source tokenizer.Segment
	Line1  string
	Line2  string
}

func ParseAddress(seg tokenizer.Segment) *Address {
	return &Address{Source: seg, Line1: seg.Element(1), Line2: seg.Element(2)}
}

// Location is the N4 city/state/postal record.
type Location struct {
	Source     tokenizer.Segment
	City       string
	State      string
	PostalCode string
	Country    string
}

func ParseLocation(seg tokenizer.Segment) *Location {
	return &Location{
		Source:     seg,
		City:       seg.Element(1),
		State:      seg.Element(2),
		PostalCode: seg.Element(3),
		Country:    seg.Element(4),
	}
}

// Contact is the PER administrative contact.
type Contact struct {
	Source                  tokenizer.Segment
	FunctionCode            string
	Function                string
	Name                    string
	CommunicationQualifier  string
	CommunicationNumber     string
	CommunicationQualifier2 string
	CommunicationNumber2    string
}

func ParseContact(seg tokenizer.Segment) *Contact {
	return &Contact{
		Source:                  seg,
		FunctionCode:            seg.Element(1),
		Function:                elements.Lookup(elements.ContactFunctionCodes, seg.Element(1)),
		Name:                    seg.Element(2),
		CommunicationQualifier:  elements.Lookup(elements.CommunicationQualifiers, seg.Element(3)),
		CommunicationNumber:     seg.Element(4),
		CommunicationQualifier2: elements.Lookup(elements.CommunicationQualifiers, seg.Element(5)),
		CommunicationNumber2:    seg.Element(6),
	}
}

// Claim is the CLP claim payment header.
type Claim struct {
	Source                tokenizer.Segment
	PatientControlNumber  string
	StatusCode            string
	PayerClassification   string
	Forwarded             bool
	ChargeAmount          string
	PaymentAmount         string
	PatientResponsibility string
	FilingIndicator       string
	ControlNumber         string
	FacilityType          string
	FrequencyCode         string
}

func ParseClaim(seg tokenizer.Segment) *Claim {
	classification, forwarded := elements.ClaimStatus(seg.Element(2))
	return &Claim{
		Source:                seg,
		PatientControlNumber:  seg.Element(1),
		StatusCode:            seg.Element(2),
		PayerClassification:   classification,
		Forwarded:             forwarded,
		ChargeAmount:          elements.Decimal(seg.Element(3)),
		PaymentAmount:         elements.Decimal(seg.Element(4)),
		PatientResponsibility: elements.Decimal(seg.Element(5)),
		FilingIndicator:       seg.Element(6),
		ControlNumber:         seg.Element(7),
		FacilityType:          seg.Element(8),
		FrequencyCode:         seg.Element(9),
	}
}

// Entity is the NM1 individual/organization name record.
type Entity struct {
	Source      tokenizer.Segment
	Code        string
	Type        string
	LastName    string
	FirstName   string
	MiddleName  string
	IDQualifier string
	IDCode      string
}

func ParseEntity(seg tokenizer.Segment) *Entity {
	return &Entity{
		Source:      seg,
		Code:        seg.Element(1),
		Type:        elements.EntityType(seg.Element(1)),
		LastName:    seg.Element(3),
		FirstName:   seg.Element(4),
		MiddleName:  seg.Element(5),
		IDQualifier: seg.Element(8),
		IDCode:      seg.Element(9),
	}
}

// Name renders "first last" for persons, or the organization name held
// in the last-name position.
func (e *Entity) Name() string {
	if e == nil {
		return ""
	}
	if e.FirstName == "" {
		return e.LastName
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Date is a DTM record; the raw text stays authoritative, Parsed is a
// convenience and zero when the value does not parse.
type Date struct {
	Source    tokenizer.Segment
	Qualifier string
	Purpose   string
	Raw       string
	Parsed    time.Time
}

func ParseDate(seg tokenizer.Segment) *Date {
	parsed, _ := elements.Date(seg.Element(2))
	return &Date{
		Source:    seg,
		Qualifier: seg.Element(1),
		Purpose:   elements.Lookup(elements.DateQualifiers, seg.Element(1)),
		Raw:       seg.Element(2),
		Parsed:    parsed,
	}
}

// Amount is an AMT supplemental amount.
type Amount struct {
	Source    tokenizer.Segment
	Qualifier string
	Purpose   string
	Amount    string
}

func ParseAmount(seg tokenizer.Segment) *Amount {
	return &Amount{
		Source:    seg,
		Qualifier: seg.Element(1),
		Purpose:   elements.Lookup(elements.AmountQualifiers, seg.Element(1)),
		Amount:    elements.Decimal(seg.Element(2)),
	}
}

// Reference is a REF identification record.
type Reference struct {
	Source      tokenizer.Segment
	Qualifier   string
	Purpose     string
	Value       string
	Description string
}

func ParseReference(seg tokenizer.Segment) *Reference {
	return &Reference{
		Source:      seg,
		Qualifier:   seg.Element(1),
		Purpose:     elements.Lookup(elements.ReferenceQualifiers, seg.Element(1)),
		Value:       seg.Element(2),
		Description: seg.Element(3),
	}
}

// Adjustment is a CAS record. CAS carries up to six reason/amount/
// quantity triples; the first is the one claims and services report,
// and the catalog rendering exposes the rest.
type Adjustment struct {
	Source     tokenizer.Segment
	GroupCode  string
	Group      string
	ReasonCode string
	Amount     string
	Quantity   string
}

func ParseAdjustment(seg tokenizer.Segment) *Adjustment {
	return &Adjustment{
		Source:     seg,
		GroupCode:  seg.Element(1),
		Group:      elements.Lookup(elements.AdjustmentGroupCodes, seg.Element(1)),
		ReasonCode: seg.Element(2),
		Amount:     elements.Decimal(seg.Element(3)),
		Quantity:   seg.Element(4),
	}
}

// Remark is an LQ remark-code record.
type Remark struct {
	Source    tokenizer.Segment
	Qualifier string
	Purpose   string
	Code      string
}

func ParseRemark(seg tokenizer.Segment) *Remark {
	return &Remark{
		Source:    seg,
		Qualifier: seg.Element(1),
		Purpose:   elements.Lookup(elements.RemarkQualifiers, seg.Element(1)),
		Code:      seg.Element(2),
	}
}

// Service is the SVC service-line header. SVC01 is a composite
// qualifier:code:modifier value.
type Service struct {
	Source          tokenizer.Segment
	Qualifier       string
	Code            string
	Modifier        string
	ChargeAmount    string
	PaymentAmount   string
	RevenueCode     string
	AllowedUnits    int
	BilledUnits     int
	AdjudicatedDate string
}

func ParseService(seg tokenizer.Segment) *Service {
	svc := &Service{
		Source:          seg,
		ChargeAmount:    elements.Decimal(seg.Element(2)),
		PaymentAmount:   elements.Decimal(seg.Element(3)),
		RevenueCode:     seg.Element(4),
		AdjudicatedDate: seg.Element(7),
	}
	parts := strings.Split(seg.Element(1), ":")
	if len(parts) > 0 {
		svc.Qualifier = parts[0]
	}
	if len(parts) > 1 {
		svc.Code = parts[1]
	}
	if len(parts) > 2 {
		svc.Modifier = parts[2]
	}
	if units, ok := elements.Integer(seg.Element(5)); ok {
		svc.AllowedUnits = units
	} else {
		svc.AllowedUnits = 1
	}
	if units, ok := elements.Integer(seg.Element(6)); ok {
		svc.BilledUnits = units
	} else {
		svc.BilledUnits = svc.AllowedUnits
	}
	return svc
}

// AssignedNumber is the LX record that nominally precedes a claim
// grouping. It is recognized but carries no structural effect.
type AssignedNumber struct {
	Source tokenizer.Segment
	Number int
}

func ParseAssignedNumber(seg tokenizer.Segment) *AssignedNumber {
	number, _ := elements.Integer(seg.Element(1))
	return &AssignedNumber{Source: seg, Number: number}
}

// ProviderAdjustment is the PLB provider-level adjustment record.
type ProviderAdjustment struct {
	Source           tokenizer.Segment
	ProviderID       string
	FiscalPeriodDate string
	Reason           string
	Amount           string
}

func ParseProviderAdjustment(seg tokenizer.Segment) *ProviderAdjustment {
	return &ProviderAdjustment{
		Source:           seg,
		ProviderID:       seg.Element(1),
		FiscalPeriodDate: seg.Element(2),
		Reason:           seg.Element(3),
		Amount:           elements.Decimal(seg.Element(4)),
	}
}
