package remit

import (
	"errors"
	"strings"
	"testing"
)

const sampleDocument = `ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *240215*1200*^*00501*000000001*0*P*:~
GS*HP*SENDER*RECEIVER*20240215*1200*1*X*005010X221A1~
ST*835*0001~
BPR*I*200*C*ACH************20240215~
TRN*1*12345*1512345678~
DTM*405*20240214~
N1*PR*ACME HEALTH~
N3*123 MAIN ST~
N4*SPRINGFIELD*IL*62704~
PER*BL*JANE DOE*TE*5551234567~
N1*PE*GOOD CLINIC*XX*1234567890~
LX*1~
CLP*PCN001*1*100*80*20*MC*ICN001*11*1~
NM1*QC*1*SMITH*JOHN****MI*MEM001~
NM1*82*1*JONES*SARA****XX*1999999999~
DTM*232*20240201~
DTM*233*20240205~
AMT*AU*80~
CAS*PR*1*20~
SVC*HC:99213:25*60*40**1~
DTM*472*20240201~
CAS*CO*45*20~
REF*6R*LINE1~
AMT*B6*60~
LQ*HE*N290~
SVC*HC:85025*40*40~
CLP*PCN002*4*50*0*0*MC*ICN002~
SVC*HC:80053*50*0~
CAS*PR*1*50~
PLB*1234567890*20241231*L6*-1.27~
SE*30*0001~
GE*1*1~
IEA*1*000000001~`

func mustParse(t *testing.T, content string) *TransactionSet {
	t.Helper()
	ts, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ts
}

func TestBuildDocument(t *testing.T) {
	ts := mustParse(t, sampleDocument)

	if ts.Interchange == nil || ts.Interchange.SenderID != "SENDER" {
		t.Fatalf("interchange sender = %+v", ts.Interchange)
	}
	if ts.FinancialInformation.Amount != "200" {
		t.Errorf("payment amount = %q, want 200", ts.FinancialInformation.Amount)
	}
	if ts.FinancialInformation.TransactionDate != "20240215" {
		t.Errorf("transaction date = %q", ts.FinancialInformation.TransactionDate)
	}
	if ts.Trace == nil || ts.Trace.Number != "12345" {
		t.Errorf("trace = %+v", ts.Trace)
	}
	if len(ts.Dates) != 1 || ts.Dates[0].Qualifier != "405" {
		t.Errorf("transaction dates = %+v", ts.Dates)
	}
	if len(ts.Organizations) != 2 {
		t.Fatalf("organizations = %d, want 2", len(ts.Organizations))
	}
	if len(ts.Claims) != 2 {
		t.Fatalf("claims = %d, want 2", len(ts.Claims))
	}
	if len(ts.ProviderAdjustments) != 1 || ts.ProviderAdjustments[0].Amount != "-1.27" {
		t.Errorf("provider adjustments = %+v", ts.ProviderAdjustments)
	}
	if ts.Envelope.TransactionHeader == nil || ts.Envelope.TransactionTrailer == nil ||
		ts.Envelope.FunctionalGroup == nil || ts.Envelope.GroupTrailer == nil ||
		ts.Envelope.InterchangeTrailer == nil {
		t.Errorf("envelope incomplete: %+v", ts.Envelope)
	}
	if ts.ServiceCount() != 3 {
		t.Errorf("service count = %d, want 3", ts.ServiceCount())
	}
}

func TestClaimLoopOwnership(t *testing.T) {
	ts := mustParse(t, sampleDocument)
	claim := ts.Claims[0]

	if claim.Claim.PatientControlNumber != "PCN001" {
		t.Fatalf("claim marker = %q", claim.Claim.PatientControlNumber)
	}
	if len(claim.Adjustments) != 1 || claim.Adjustments[0].GroupCode != "PR" {
		t.Errorf("claim adjustments = %+v", claim.Adjustments)
	}
	if len(claim.Entities) != 2 || len(claim.Dates) != 2 || len(claim.Amounts) != 1 {
		t.Errorf("claim records: entities=%d dates=%d amounts=%d",
			len(claim.Entities), len(claim.Dates), len(claim.Amounts))
	}
	if got := claim.Patient().Name(); got != "JOHN SMITH" {
		t.Errorf("patient = %q", got)
	}
	if got := claim.RenderingProvider().Name(); got != "SARA JONES" {
		t.Errorf("rendering provider = %q", got)
	}
	if len(claim.Services) != 2 {
		t.Fatalf("services = %d, want 2", len(claim.Services))
	}

	svc := claim.Services[0]
	if svc.Service.Code != "99213" || svc.Service.Modifier != "25" || svc.Service.Qualifier != "HC" {
		t.Errorf("service composite = %+v", svc.Service)
	}
	if len(svc.Adjustments) != 1 || svc.Adjustments[0].ReasonCode != "45" {
		t.Errorf("service adjustments = %+v", svc.Adjustments)
	}
	if len(svc.References) != 1 || len(svc.Remarks) != 1 {
		t.Errorf("service records: refs=%d remarks=%d", len(svc.References), len(svc.Remarks))
	}
	if svc.AllowedAmount() != "60" {
		t.Errorf("allowed amount = %q", svc.AllowedAmount())
	}
	if d := svc.PeriodStart(); d == nil || d.Raw != "20240201" {
		t.Errorf("service period start = %+v", d)
	}
	if len(claim.Services[1].Dates) != 0 {
		t.Errorf("second service dates = %+v", claim.Services[1].Dates)
	}
}

// An adjustment after a service line belongs to that service, not the
// claim, even when it is the claim's only adjustment-level record.
func TestInnermostContextWins(t *testing.T) {
	ts := mustParse(t, sampleDocument)
	claim := ts.Claims[1]

	if len(claim.Adjustments) != 0 {
		t.Errorf("claim adjustments = %+v, want none", claim.Adjustments)
	}
	if len(claim.Services) != 1 || len(claim.Services[0].Adjustments) != 1 {
		t.Fatalf("services = %+v", claim.Services)
	}
	if got := claim.Services[0].Adjustments[0].Amount; got != "50" {
		t.Errorf("service adjustment amount = %q", got)
	}
}

func TestPayerPayee(t *testing.T) {
	ts := mustParse(t, sampleDocument)

	payer, err := ts.Payer()
	if err != nil {
		t.Fatalf("Payer: %v", err)
	}
	if payer.Organization.Name != "ACME HEALTH" {
		t.Errorf("payer = %q", payer.Organization.Name)
	}
	if payer.Address == nil || payer.Location == nil || payer.Contact == nil {
		t.Errorf("payer loop incomplete: %+v", payer)
	}

	payee, err := ts.Payee()
	if err != nil {
		t.Fatalf("Payee: %v", err)
	}
	if payee.Organization.Name != "GOOD CLINIC" || payee.Address != nil {
		t.Errorf("payee = %+v", payee)
	}

	noPayer := mustParse(t, "ISA*00*0~BPR*I*100~N1*PE*GOOD CLINIC~")
	if _, err := noPayer.Payer(); err == nil {
		t.Error("expected error resolving payer in document without one")
	}
}

func TestScalarLastWriteWins(t *testing.T) {
	ts := mustParse(t, "ISA*00*0~BPR*I*100~TRN*1*FIRST~TRN*1*SECOND~")
	if ts.Trace.Number != "SECOND" {
		t.Errorf("trace number = %q, want SECOND", ts.Trace.Number)
	}
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		tag      string
		position int
	}{
		{"content before ISA", "GS*HP~ISA*00~BPR*I*100~", "GS", 1},
		{"service outside claim", "ISA*00~BPR*I*100~SVC*HC:99213*60*40~", "SVC", 3},
		{"adjustment outside claim", "ISA*00~BPR*I*100~CAS*PR*1*20~", "CAS", 3},
		{"remark outside service", "ISA*00~BPR*I*100~LQ*HE*N290~", "LQ", 3},
		{"unrecognized tag", "ISA*00~BPR*I*100~ZZZ*1~", "ZZZ", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content)
			var structural *StructuralError
			if !errors.As(err, &structural) {
				t.Fatalf("err = %v, want StructuralError", err)
			}
			if structural.Tag != tc.tag || structural.Position != tc.position {
				t.Errorf("got tag=%s position=%d, want tag=%s position=%d",
					structural.Tag, structural.Position, tc.tag, tc.position)
			}
		})
	}
}

func TestMissingRequiredScalars(t *testing.T) {
	if _, err := Parse("ISA*00*0~TRN*1*12345~"); err == nil ||
		!strings.Contains(err.Error(), "BPR") {
		t.Errorf("missing BPR: err = %v", err)
	}
	if _, err := Parse(""); err == nil {
		t.Error("empty document should not parse")
	}
}

// LX is recorded without structural effect: claims before and after it
// land in the same flat claim list.
func TestAssignedNumberIsInert(t *testing.T) {
	ts := mustParse(t, "ISA*00~BPR*I*100~LX*1~CLP*A*1*10*10~LX*2~CLP*B*1*20*20~")
	if len(ts.Claims) != 2 {
		t.Fatalf("claims = %d, want 2", len(ts.Claims))
	}
	if ts.Claims[0].Claim.PatientControlNumber != "A" ||
		ts.Claims[1].Claim.PatientControlNumber != "B" {
		t.Errorf("claim order: %+v", ts.Claims)
	}
	if len(ts.AssignedNumbers) != 2 ||
		ts.AssignedNumbers[0].Number != 1 || ts.AssignedNumbers[1].Number != 2 {
		t.Errorf("assigned numbers = %+v", ts.AssignedNumbers)
	}
}

func TestParseControlCharacterDelimiters(t *testing.T) {
	// Unit-separator content tokenizes with ':' after normalization.
	withUnitSep := "ISA\x1d00\x1d0\x1fBPR\x1dI\x1d100\x1f"
	ts := mustParse(t, withUnitSep)
	if ts.FinancialInformation.Amount != "100" {
		t.Errorf("amount = %q", ts.FinancialInformation.Amount)
	}

	// Group/record separators alone keep the standard '~' terminator.
	withoutUnitSep := "ISA\x1d00\x1d0\x1eBPR\x1dI\x1d250\x1e"
	ts = mustParse(t, withoutUnitSep)
	if ts.FinancialInformation.Amount != "250" {
		t.Errorf("amount = %q", ts.FinancialInformation.Amount)
	}
}
