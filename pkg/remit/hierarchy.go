package remit

import (
	"github.com/oarkflow/json"

	"github.com/oarkflow/edi835/pkg/segments"
)

// Hierarchy is the lossless nested rendering of a document: every
// scalar, loop header and child collection under fixed keys mirroring
// the source grouping. Empty collections render as empty, absent
// scalars as null, absent optional fields as "".
type Hierarchy struct {
	Interchange *InterchangeView `json:"interchange"`
}

// InterchangeView wraps the envelope around the transaction list.
type InterchangeView struct {
	ISA          map[string]string  `json:"ISA"`
	GS           map[string]string  `json:"GS"`
	Transactions []*TransactionView `json:"transactions"`
	GE           map[string]string  `json:"GE"`
	IEA          map[string]string  `json:"IEA"`
}

// TransactionView is one ST..SE transaction.
type TransactionView struct {
	ST      map[string]string   `json:"ST"`
	BPR     map[string]string   `json:"BPR"`
	TRN     map[string]string   `json:"TRN"`
	DTM     []map[string]string `json:"DTM"`
	N1Loop  []*OrganizationView `json:"N1_loop"`
	CLPLoop []*ClaimView        `json:"CLP_loop"`
	PLB     []map[string]string `json:"PLB"`
	SE      map[string]string   `json:"SE"`
}

// OrganizationView is one N1 loop.
type OrganizationView struct {
	N1  map[string]string `json:"N1"`
	N3  map[string]string `json:"N3"`
	N4  map[string]string `json:"N4"`
	PER map[string]string `json:"PER"`
}

// ClaimView is one CLP loop with its service loops.
type ClaimView struct {
	CLP     map[string]string   `json:"CLP"`
	CAS     []map[string]string `json:"CAS"`
	NM1     []map[string]string `json:"NM1"`
	DTM     []map[string]string `json:"DTM"`
	AMT     []map[string]string `json:"AMT"`
	REF     []map[string]string `json:"REF"`
	SVCLoop []*ServiceView      `json:"SVC_loop"`
}

// ServiceView is one SVC loop.
type ServiceView struct {
	SVC map[string]string   `json:"SVC"`
	DTM []map[string]string `json:"DTM"`
	CAS []map[string]string `json:"CAS"`
	REF []map[string]string `json:"REF"`
	AMT []map[string]string `json:"AMT"`
}

func newTransactionView(st map[string]string) *TransactionView {
	return &TransactionView{
		ST:      st,
		DTM:     []map[string]string{},
		N1Loop:  []*OrganizationView{},
		CLPLoop: []*ClaimView{},
		PLB:     []map[string]string{},
	}
}

func newClaimView(clp map[string]string) *ClaimView {
	return &ClaimView{
		CLP:     clp,
		CAS:     []map[string]string{},
		NM1:     []map[string]string{},
		DTM:     []map[string]string{},
		AMT:     []map[string]string{},
		REF:     []map[string]string{},
		SVCLoop: []*ServiceView{},
	}
}

func newServiceView(svc map[string]string) *ServiceView {
	return &ServiceView{
		SVC: svc,
		DTM: []map[string]string{},
		CAS: []map[string]string{},
		REF: []map[string]string{},
		AMT: []map[string]string{},
	}
}

// Hierarchy re-walks the retained source segments with the same
// innermost-context routing the loop builder used and emits the nested
// view. Read-only; the document is not touched.
func (ts *TransactionSet) Hierarchy() *Hierarchy {
	interchange := &InterchangeView{Transactions: []*TransactionView{}}
	var (
		transaction *TransactionView
		n1          *OrganizationView
		clp         *ClaimView
		svc         *ServiceView
	)

	for _, seg := range ts.Segments() {
		rendered := segments.Render(seg)
		switch seg.Tag {
		case segments.TagInterchange:
			interchange.ISA = rendered
		case segments.TagFunctionalGroup:
			interchange.GS = rendered
		case segments.TagTransactionHeader:
			transaction = newTransactionView(rendered)
			interchange.Transactions = append(interchange.Transactions, transaction)
			n1, clp, svc = nil, nil, nil
		case segments.TagFinancialInformation:
			if transaction != nil {
				transaction.BPR = rendered
			}
		case segments.TagTrace:
			if transaction != nil {
				transaction.TRN = rendered
			}
		case segments.TagDate:
			switch {
			case svc != nil:
				svc.DTM = append(svc.DTM, rendered)
			case clp != nil:
				clp.DTM = append(clp.DTM, rendered)
			case transaction != nil:
				transaction.DTM = append(transaction.DTM, rendered)
			}
		case segments.TagOrganization:
			if transaction != nil {
				n1 = &OrganizationView{N1: rendered}
				transaction.N1Loop = append(transaction.N1Loop, n1)
			}
		case segments.TagAddress:
			if n1 != nil {
				n1.N3 = rendered
			}
		case segments.TagLocation:
			if n1 != nil {
				n1.N4 = rendered
			}
		case segments.TagContact:
			if n1 != nil {
				n1.PER = rendered
			}
		case segments.TagClaim:
			if transaction != nil {
				clp = newClaimView(rendered)
				transaction.CLPLoop = append(transaction.CLPLoop, clp)
				svc = nil
			}
		case segments.TagService:
			if clp != nil {
				svc = newServiceView(rendered)
				clp.SVCLoop = append(clp.SVCLoop, svc)
			}
		case segments.TagAdjustment:
			switch {
			case svc != nil:
				svc.CAS = append(svc.CAS, rendered)
			case clp != nil:
				clp.CAS = append(clp.CAS, rendered)
			}
		case segments.TagEntity:
			if clp != nil {
				clp.NM1 = append(clp.NM1, rendered)
			}
		case segments.TagAmount:
			switch {
			case svc != nil:
				svc.AMT = append(svc.AMT, rendered)
			case clp != nil:
				clp.AMT = append(clp.AMT, rendered)
			}
		case segments.TagReference:
			switch {
			case svc != nil:
				svc.REF = append(svc.REF, rendered)
			case clp != nil:
				clp.REF = append(clp.REF, rendered)
			}
		case segments.TagProviderAdjustment:
			if transaction != nil {
				transaction.PLB = append(transaction.PLB, rendered)
			}
		case segments.TagTransactionTrailer:
			if transaction != nil {
				transaction.SE = rendered
			}
			transaction, n1, clp, svc = nil, nil, nil, nil
		case segments.TagGroupTrailer:
			interchange.GE = rendered
		case segments.TagInterchangeTrailer:
			interchange.IEA = rendered
		}
	}

	return &Hierarchy{Interchange: interchange}
}

// ToJSON renders the hierarchical view as indented JSON.
func (ts *TransactionSet) ToJSON() ([]byte, error) {
	return json.MarshalIndent(ts.Hierarchy(), "", "  ")
}
