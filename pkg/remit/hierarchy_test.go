package remit

import (
	"strings"
	"testing"
)

func TestHierarchy(t *testing.T) {
	ts := mustParse(t, sampleDocument)
	h := ts.Hierarchy()

	ic := h.Interchange
	if ic.ISA == nil || ic.GS == nil || ic.GE == nil || ic.IEA == nil {
		t.Fatalf("envelope incomplete: %+v", ic)
	}
	if ic.ISA["interchange_sender_id"] != "SENDER" {
		t.Errorf("ISA sender = %q", ic.ISA["interchange_sender_id"])
	}
	if len(ic.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(ic.Transactions))
	}

	tx := ic.Transactions[0]
	if tx.BPR["monetary_amount"] != "200" {
		t.Errorf("BPR amount = %q", tx.BPR["monetary_amount"])
	}
	if len(tx.DTM) != 1 || tx.DTM[0]["date_time_qualifier"] != "405" {
		t.Errorf("transaction DTM = %+v", tx.DTM)
	}
	if len(tx.N1Loop) != 2 || len(tx.CLPLoop) != 2 || len(tx.PLB) != 1 {
		t.Fatalf("loop counts: n1=%d clp=%d plb=%d",
			len(tx.N1Loop), len(tx.CLPLoop), len(tx.PLB))
	}
	if tx.SE == nil {
		t.Error("SE not captured")
	}

	payer := tx.N1Loop[0]
	if payer.N3 == nil || payer.N4 == nil || payer.PER == nil {
		t.Errorf("payer loop incomplete: %+v", payer)
	}
	if tx.N1Loop[1].N3 != nil {
		t.Errorf("payee should have no address: %+v", tx.N1Loop[1].N3)
	}

	clp := tx.CLPLoop[0]
	if clp.CLP["patient_control_number"] != "PCN001" {
		t.Errorf("CLP = %+v", clp.CLP)
	}
	if len(clp.CAS) != 1 || len(clp.NM1) != 2 || len(clp.DTM) != 2 || len(clp.AMT) != 1 {
		t.Errorf("claim records: cas=%d nm1=%d dtm=%d amt=%d",
			len(clp.CAS), len(clp.NM1), len(clp.DTM), len(clp.AMT))
	}
	if len(clp.SVCLoop) != 2 {
		t.Fatalf("service loops = %d, want 2", len(clp.SVCLoop))
	}

	svc := clp.SVCLoop[0]
	if svc.SVC["service_type_code"] != "HC:99213:25" {
		t.Errorf("SVC composite = %q", svc.SVC["service_type_code"])
	}
	if len(svc.DTM) != 1 || len(svc.CAS) != 1 || len(svc.REF) != 1 || len(svc.AMT) != 1 {
		t.Errorf("service records: dtm=%d cas=%d ref=%d amt=%d",
			len(svc.DTM), len(svc.CAS), len(svc.REF), len(svc.AMT))
	}

	// The denied claim's only CAS sits on its service, not the claim.
	denied := tx.CLPLoop[1]
	if len(denied.CAS) != 0 || len(denied.SVCLoop) != 1 || len(denied.SVCLoop[0].CAS) != 1 {
		t.Errorf("denied claim routing: %+v", denied)
	}
}

func TestToJSON(t *testing.T) {
	ts := mustParse(t, sampleDocument)
	out, err := ts.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	body := string(out)

	for _, key := range []string{
		`"interchange"`, `"transactions"`, `"N1_loop"`, `"CLP_loop"`, `"SVC_loop"`,
		`"patient_control_number": "PCN001"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("output missing %s", key)
		}
	}
	// Absent scalars render null, empty collections render empty.
	if !strings.Contains(body, `"N3": null`) {
		t.Error("absent N3 should render null")
	}
	if !strings.Contains(body, `"NM1": []`) {
		t.Error("empty NM1 collection should render []")
	}
}
