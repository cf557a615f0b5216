// Package remit reconstructs the implicit loop hierarchy of an X12 835
// remittance advice from its flat segment stream: one single forward
// pass, one-segment lookahead, context-sensitive routing of tags that
// are legal at more than one nesting level.
package remit

import (
	"fmt"

	"github.com/oarkflow/errors"

	"github.com/oarkflow/edi835/pkg/elements"
	"github.com/oarkflow/edi835/pkg/segments"
	"github.com/oarkflow/edi835/pkg/tokenizer"
)

// StructuralError reports a segment that no open loop or context could
// accept. The build aborts; no partial document is returned.
type StructuralError struct {
	Tag      string
	Position int
	Reason   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("edi835: segment %d (%s): %s", e.Position, e.Tag, e.Reason)
}

// Envelope holds the pass-through wrapper scalars around the
// transaction content. Each is optional; a repeat overwrites.
type Envelope struct {
	FunctionalGroup    *tokenizer.Segment // GS
	TransactionHeader  *tokenizer.Segment // ST
	TransactionTrailer *tokenizer.Segment // SE
	GroupTrailer       *tokenizer.Segment // GE
	InterchangeTrailer *tokenizer.Segment // IEA
}

// TransactionSet is one fully built remittance document. It is
// immutable after Build returns; every collection keeps source order.
type TransactionSet struct {
	Interchange          *segments.Interchange
	FinancialInformation *segments.FinancialInformation
	Trace                *segments.Trace
	Dates                []*segments.Date
	Organizations        []*OrganizationLoop
	Claims               []*ClaimLoop
	AssignedNumbers      []*segments.AssignedNumber
	ProviderAdjustments  []*segments.ProviderAdjustment
	Envelope             Envelope

	source []tokenizer.Segment
}

// Build assembles a document from the tokenized segment stream. The
// first segment must be the ISA interchange opener; a required scalar
// missing at finalization, or a segment no open context accepts,
// aborts with a StructuralError.
func Build(segs []tokenizer.Segment) (*TransactionSet, error) {
	if len(segs) == 0 {
		return nil, &StructuralError{Position: 1, Reason: "empty document"}
	}
	if segs[0].Tag != segments.TagInterchange {
		return nil, &StructuralError{
			Tag:      segs[0].Tag,
			Position: 1,
			Reason:   "document must open with an ISA interchange header",
		}
	}

	ts := &TransactionSet{
		Dates:               []*segments.Date{},
		Organizations:       []*OrganizationLoop{},
		Claims:              []*ClaimLoop{},
		AssignedNumbers:     []*segments.AssignedNumber{},
		ProviderAdjustments: []*segments.ProviderAdjustment{},
		source:              segs,
	}
	b := &builder{cursor: NewCursor(segs), document: ts}

	for {
		seg, ok := b.cursor.Peek()
		if !ok {
			break
		}
		switch seg.Tag {
		case segments.TagInterchange:
			b.cursor.Next()
			ts.Interchange = segments.ParseInterchange(seg)
		case segments.TagFinancialInformation:
			b.cursor.Next()
			ts.FinancialInformation = segments.ParseFinancialInformation(seg)
		case segments.TagTrace:
			b.cursor.Next()
			ts.Trace = segments.ParseTrace(seg)
		case segments.TagFunctionalGroup:
			b.cursor.Next()
			ts.Envelope.FunctionalGroup = envelopeSegment(seg)
		case segments.TagTransactionHeader:
			b.cursor.Next()
			ts.Envelope.TransactionHeader = envelopeSegment(seg)
		case segments.TagTransactionTrailer:
			b.cursor.Next()
			ts.Envelope.TransactionTrailer = envelopeSegment(seg)
		case segments.TagGroupTrailer:
			b.cursor.Next()
			ts.Envelope.GroupTrailer = envelopeSegment(seg)
		case segments.TagInterchangeTrailer:
			b.cursor.Next()
			ts.Envelope.InterchangeTrailer = envelopeSegment(seg)
		case segments.TagAssignedNumber:
			// Recorded but structurally inert: LX numbering does not
			// regroup the claims that follow it.
			b.cursor.Next()
			ts.AssignedNumbers = append(ts.AssignedNumbers,
				segments.ParseAssignedNumber(seg))
		case segments.TagOrganization:
			ts.Organizations = append(ts.Organizations, b.buildOrganization())
		case segments.TagClaim:
			ts.Claims = append(ts.Claims, b.buildClaim())
		case segments.TagProviderAdjustment:
			b.cursor.Next()
			ts.ProviderAdjustments = append(ts.ProviderAdjustments,
				segments.ParseProviderAdjustment(seg))
		case segments.TagDate:
			position := b.cursor.Pos()
			b.cursor.Next()
			if !b.attach(seg) {
				return nil, &StructuralError{Tag: seg.Tag, Position: position,
					Reason: "no open context accepts this record"}
			}
		case segments.TagAdjustment, segments.TagEntity, segments.TagAmount,
			segments.TagReference, segments.TagRemark, segments.TagService:
			return nil, &StructuralError{
				Tag:      seg.Tag,
				Position: b.cursor.Pos(),
				Reason:   "record is only valid inside an open claim or service loop",
			}
		default:
			return nil, &StructuralError{
				Tag:      seg.Tag,
				Position: b.cursor.Pos(),
				Reason:   "unrecognized segment tag",
			}
		}
	}

	if ts.Interchange == nil {
		return nil, &StructuralError{Tag: segments.TagInterchange, Position: len(segs),
			Reason: "missing required ISA interchange record"}
	}
	if ts.FinancialInformation == nil {
		return nil, &StructuralError{Tag: segments.TagFinancialInformation, Position: len(segs),
			Reason: "missing required BPR financial information record"}
	}
	return ts, nil
}

func envelopeSegment(seg tokenizer.Segment) *tokenizer.Segment {
	copied := seg
	return &copied
}

// Payer returns the single organization loop resolved as payer. Zero
// or multiple payers is an error at access time; the document itself
// builds fine either way.
func (ts *TransactionSet) Payer() (*OrganizationLoop, error) {
	return ts.organizationByType(elements.EntityPayer)
}

// Payee returns the single organization loop resolved as payee.
func (ts *TransactionSet) Payee() (*OrganizationLoop, error) {
	return ts.organizationByType(elements.EntityPayee)
}

func (ts *TransactionSet) organizationByType(orgType string) (*OrganizationLoop, error) {
	var matches []*OrganizationLoop
	for _, org := range ts.Organizations {
		if org.Organization.Type == orgType {
			matches = append(matches, org)
		}
	}
	if len(matches) != 1 {
		return nil, errors.New(fmt.Sprintf(
			"expected exactly one %s organization, found %d", orgType, len(matches)))
	}
	return matches[0], nil
}

// ServiceCount is the total number of service loops across all claims.
func (ts *TransactionSet) ServiceCount() int {
	count := 0
	for _, claim := range ts.Claims {
		count += len(claim.Services)
	}
	return count
}

// Segments exposes the retained source segment stream the document was
// built from; the hierarchical view re-walks it.
func (ts *TransactionSet) Segments() []tokenizer.Segment {
	return ts.source
}
