package remit

import (
	"github.com/oarkflow/edi835/pkg/elements"
	"github.com/oarkflow/edi835/pkg/segments"
	"github.com/oarkflow/edi835/pkg/tokenizer"
)

// OrganizationLoop is one N1 loop: the organization header plus its
// optional address, location and contact records. Type resolution
// (payer, payee, ...) happens on the header; a loop whose entity code
// resolves to nothing is still constructed with an empty type.
type OrganizationLoop struct {
	Organization *segments.Organization
	Address      *segments.Address
	Location     *segments.Location
	Contact      *segments.Contact
}

// ClaimLoop is one CLP loop: the claim header, its directly-owned
// record collections, and the service loops it contains. Collection
// order equals source order.
type ClaimLoop struct {
	Claim       *segments.Claim
	Adjustments []*segments.Adjustment
	Entities    []*segments.Entity
	Dates       []*segments.Date
	Amounts     []*segments.Amount
	References  []*segments.Reference
	Services    []*ServiceLoop
}

// Patient returns the claim's patient name record, nil when absent.
func (c *ClaimLoop) Patient() *segments.Entity {
	return c.entityByType(elements.EntityPatient)
}

// RenderingProvider returns the claim's rendering provider record,
// nil when absent.
func (c *ClaimLoop) RenderingProvider() *segments.Entity {
	return c.entityByType(elements.EntityRenderingProvider)
}

func (c *ClaimLoop) entityByType(entityType string) *segments.Entity {
	for _, entity := range c.Entities {
		if entity.Type == entityType {
			return entity
		}
	}
	return nil
}

// StatementPeriodStart returns the claim statement period start date
// record, nil when absent.
func (c *ClaimLoop) StatementPeriodStart() *segments.Date {
	return dateByQualifier(c.Dates, elements.DateQualClaimStart)
}

// StatementPeriodEnd returns the claim statement period end date
// record, nil when absent.
func (c *ClaimLoop) StatementPeriodEnd() *segments.Date {
	return dateByQualifier(c.Dates, elements.DateQualClaimEnd)
}

// ServiceLoop is one SVC loop: the service-line header plus the
// adjustment, date, amount, reference and remark records scoped to it.
type ServiceLoop struct {
	Service     *segments.Service
	Adjustments []*segments.Adjustment
	Dates       []*segments.Date
	Amounts     []*segments.Amount
	References  []*segments.Reference
	Remarks     []*segments.Remark
}

// PeriodStart returns the service period start: a single service date
// (472) or an explicit period start (150). Nil when the service
// carries no date record.
func (s *ServiceLoop) PeriodStart() *segments.Date {
	if d := dateByQualifier(s.Dates, elements.DateQualService); d != nil {
		return d
	}
	return dateByQualifier(s.Dates, elements.DateQualPeriodStart)
}

// PeriodEnd returns the service period end: a single service date
// (472) or an explicit period end (151).
func (s *ServiceLoop) PeriodEnd() *segments.Date {
	if d := dateByQualifier(s.Dates, elements.DateQualService); d != nil {
		return d
	}
	return dateByQualifier(s.Dates, elements.DateQualPeriodEnd)
}

// AllowedAmount returns the service's allowed amount (AMT qualifier
// B6), "" when not reported.
func (s *ServiceLoop) AllowedAmount() string {
	for _, amount := range s.Amounts {
		if amount.Qualifier == elements.AmountQualAllowed {
			return amount.Amount
		}
	}
	return ""
}

func dateByQualifier(dates []*segments.Date, qualifier string) *segments.Date {
	for _, d := range dates {
		if d.Qualifier == qualifier {
			return d
		}
	}
	return nil
}

// builder carries the explicit context stack of the single-pass loop
// grammar: the transaction is always open, claim and service point at
// the innermost open loop of their level, nil when closed. All
// tag-ambiguous records route through attach, which consults this
// state per record.
type builder struct {
	cursor   *Cursor
	document *TransactionSet
	claim    *ClaimLoop
	service  *ServiceLoop
}

// attach routes a record shared between nesting levels (CAS, DTM, AMT,
// REF) to the innermost currently open context. Returns false when no
// open context can accept the tag.
func (b *builder) attach(seg tokenizer.Segment) bool {
	switch seg.Tag {
	case segments.TagAdjustment:
		adjustment := segments.ParseAdjustment(seg)
		switch {
		case b.service != nil:
			b.service.Adjustments = append(b.service.Adjustments, adjustment)
		case b.claim != nil:
			b.claim.Adjustments = append(b.claim.Adjustments, adjustment)
		default:
			return false
		}
	case segments.TagDate:
		date := segments.ParseDate(seg)
		switch {
		case b.service != nil:
			b.service.Dates = append(b.service.Dates, date)
		case b.claim != nil:
			b.claim.Dates = append(b.claim.Dates, date)
		default:
			b.document.Dates = append(b.document.Dates, date)
		}
	case segments.TagAmount:
		amount := segments.ParseAmount(seg)
		switch {
		case b.service != nil:
			b.service.Amounts = append(b.service.Amounts, amount)
		case b.claim != nil:
			b.claim.Amounts = append(b.claim.Amounts, amount)
		default:
			return false
		}
	case segments.TagReference:
		reference := segments.ParseReference(seg)
		switch {
		case b.service != nil:
			b.service.References = append(b.service.References, reference)
		case b.claim != nil:
			b.claim.References = append(b.claim.References, reference)
		default:
			return false
		}
	case segments.TagEntity:
		if b.claim == nil {
			return false
		}
		b.claim.Entities = append(b.claim.Entities, segments.ParseEntity(seg))
	case segments.TagRemark:
		if b.service == nil {
			return false
		}
		b.service.Remarks = append(b.service.Remarks, segments.ParseRemark(seg))
	default:
		return false
	}
	return true
}

// buildOrganization materializes one N1 loop. The cursor is positioned
// at the N1 header; the loop ends, header left unconsumed, at the
// first tag it does not own.
func (b *builder) buildOrganization() *OrganizationLoop {
	seg, _ := b.cursor.Next()
	loop := &OrganizationLoop{Organization: segments.ParseOrganization(seg)}
	for {
		next, ok := b.cursor.Peek()
		if !ok {
			return loop
		}
		switch next.Tag {
		case segments.TagAddress:
			seg, _ := b.cursor.Next()
			loop.Address = segments.ParseAddress(seg)
		case segments.TagLocation:
			seg, _ := b.cursor.Next()
			loop.Location = segments.ParseLocation(seg)
		case segments.TagContact:
			seg, _ := b.cursor.Next()
			loop.Contact = segments.ParseContact(seg)
		default:
			return loop
		}
	}
}

// buildClaim materializes one CLP loop, recursing into service loops.
// Any tag the claim does not own (the next CLP, PLB, SE, or anything
// unrecognized for this level) ends the loop and stays unconsumed.
func (b *builder) buildClaim() *ClaimLoop {
	seg, _ := b.cursor.Next()
	claim := &ClaimLoop{
		Claim:       segments.ParseClaim(seg),
		Adjustments: []*segments.Adjustment{},
		Entities:    []*segments.Entity{},
		Dates:       []*segments.Date{},
		Amounts:     []*segments.Amount{},
		References:  []*segments.Reference{},
		Services:    []*ServiceLoop{},
	}
	b.claim = claim
	defer func() { b.claim = nil }()

	for {
		next, ok := b.cursor.Peek()
		if !ok {
			return claim
		}
		switch next.Tag {
		case segments.TagService:
			claim.Services = append(claim.Services, b.buildService())
		case segments.TagAdjustment, segments.TagEntity, segments.TagDate,
			segments.TagAmount, segments.TagReference:
			seg, _ := b.cursor.Next()
			b.attach(seg)
		default:
			return claim
		}
	}
}

// buildService materializes one SVC loop. The same CAS/DTM/AMT/REF
// tags the claim owns attach here instead while this loop is open;
// that is the innermost-context routing rule.
func (b *builder) buildService() *ServiceLoop {
	seg, _ := b.cursor.Next()
	service := &ServiceLoop{
		Service:     segments.ParseService(seg),
		Adjustments: []*segments.Adjustment{},
		Dates:       []*segments.Date{},
		Amounts:     []*segments.Amount{},
		References:  []*segments.Reference{},
		Remarks:     []*segments.Remark{},
	}
	b.service = service
	defer func() { b.service = nil }()

	for {
		next, ok := b.cursor.Peek()
		if !ok {
			return service
		}
		switch next.Tag {
		case segments.TagAdjustment, segments.TagDate, segments.TagAmount,
			segments.TagReference, segments.TagRemark:
			seg, _ := b.cursor.Next()
			b.attach(seg)
		default:
			return service
		}
	}
}
