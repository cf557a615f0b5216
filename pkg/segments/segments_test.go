package segments

import (
	"testing"
	"time"

	"github.com/oarkflow/edi835/pkg/tokenizer"
)

func segment(record string) tokenizer.Segment {
	segs := tokenizer.Split(record+"~", tokenizer.DefaultTerminator, tokenizer.DefaultSeparator)
	return segs[0]
}

func TestParseClaim(t *testing.T) {
	clp := ParseClaim(segment("CLP*PCN001*1*200*120*30*MC*ICN001*11*1"))
	if clp.PatientControlNumber != "PCN001" {
		t.Fatalf("patient control number: %q", clp.PatientControlNumber)
	}
	if clp.PaymentAmount != "120" || clp.ChargeAmount != "200" {
		t.Fatalf("amounts: charge %q payment %q", clp.ChargeAmount, clp.PaymentAmount)
	}
	if clp.PayerClassification != "primary" || clp.Forwarded {
		t.Fatalf("status 1 must classify primary/not forwarded, got %s/%v",
			clp.PayerClassification, clp.Forwarded)
	}
	if clp.ControlNumber != "ICN001" {
		t.Fatalf("icn: %q", clp.ControlNumber)
	}
}

func TestParseServiceComposite(t *testing.T) {
	svc := ParseService(segment("SVC*HC:99213:25*100*80**1"))
	if svc.Qualifier != "HC" || svc.Code != "99213" || svc.Modifier != "25" {
		t.Fatalf("composite parse: %q %q %q", svc.Qualifier, svc.Code, svc.Modifier)
	}
	if svc.ChargeAmount != "100" || svc.PaymentAmount != "80" {
		t.Fatalf("amounts: %q %q", svc.ChargeAmount, svc.PaymentAmount)
	}
	if svc.AllowedUnits != 1 || svc.BilledUnits != 1 {
		t.Fatalf("units: allowed %d billed %d", svc.AllowedUnits, svc.BilledUnits)
	}
}

func TestParseServiceDefaultsUnits(t *testing.T) {
	svc := ParseService(segment("SVC*HC:85025*40*35"))
	if svc.AllowedUnits != 1 {
		t.Fatalf("missing SVC05 must default to 1 unit, got %d", svc.AllowedUnits)
	}
	if svc.BilledUnits != svc.AllowedUnits {
		t.Fatalf("missing SVC06 must mirror allowed units, got %d", svc.BilledUnits)
	}
}

func TestParseEntityName(t *testing.T) {
	nm1 := ParseEntity(segment("NM1*QC*1*SMITH*JOHN"))
	if nm1.Type != "patient" {
		t.Fatalf("QC must resolve to patient, got %q", nm1.Type)
	}
	if nm1.Name() != "JOHN SMITH" {
		t.Fatalf("name: %q", nm1.Name())
	}
	org := ParseEntity(segment("NM1*82*2*GOOD CLINIC"))
	if org.Name() != "GOOD CLINIC" {
		t.Fatalf("organization name: %q", org.Name())
	}
}

func TestRenderMissingTrailingFields(t *testing.T) {
	rendered := Render(segment("TRN*1*12345"))
	if rendered["trace_type_code"] != "1" || rendered["reference_identification"] != "12345" {
		t.Fatalf("rendered: %#v", rendered)
	}
	if got, ok := rendered["originating_company_identifier"]; !ok || got != "" {
		t.Fatalf("missing trailing field must render as empty string, got %q ok=%v", got, ok)
	}
}

func TestValuesCoercion(t *testing.T) {
	values := Values(segment("LX*42"))
	if values["assigned_number"] != 42 {
		t.Fatalf("assigned_number: %#v", values["assigned_number"])
	}
	cas := Values(segment("CAS*CO*45*20"))
	if cas["claim_adjustment_group_code"] != "contractual obligations" {
		t.Fatalf("group code lookup: %#v", cas["claim_adjustment_group_code"])
	}
	if cas["adjustment_amount"] != "20" {
		t.Fatalf("amount: %#v", cas["adjustment_amount"])
	}
	dtm := Values(segment("DTM*472*20240201"))
	if got, ok := dtm["date"].(time.Time); !ok || !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date: %#v", dtm["date"])
	}
	bad := Values(segment("DTM*472*NOTADATE"))
	if bad["date"] != "NOTADATE" {
		t.Fatalf("unparseable date must pass through raw: %#v", bad["date"])
	}
}

func TestRenderTrimsPadding(t *testing.T) {
	isa := Render(segment("ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *240215*1200"))
	if isa["interchange_sender_id"] != "SENDER" {
		t.Fatalf("sender id: %q", isa["interchange_sender_id"])
	}
	if isa["interchange_receiver_id"] != "RECEIVER" {
		t.Fatalf("receiver id: %q", isa["interchange_receiver_id"])
	}
	if isa["authorization_information"] != "" {
		t.Fatalf("padded blank element must render empty: %q", isa["authorization_information"])
	}
}

func TestRenderUnknownTag(t *testing.T) {
	if got := Render(segment("ZZZ*1*2")); got != nil {
		t.Fatalf("unknown tag must render nil, got %#v", got)
	}
}
