package segments

import (
	"github.com/oarkflow/edi835/pkg/elements"
	"github.com/oarkflow/edi835/pkg/tokenizer"
)

// Kind selects the coercion rule applied to a catalog field.
type Kind int

const (
	KindIdentifier Kind = iota
	KindInteger
	KindDecimal
	KindDate
	KindCode
)

// Field is one positional entry of a segment layout: the stable output
// name plus the coercion rule for the element at that position.
type Field struct {
	Name  string
	Kind  Kind
	Table map[string]string
}

func ident(name string) Field   { return Field{Name: name, Kind: KindIdentifier} }
func integer(name string) Field { return Field{Name: name, Kind: KindInteger} }
func decimal(name string) Field { return Field{Name: name, Kind: KindDecimal} }
func dated(name string) Field   { return Field{Name: name, Kind: KindDate} }

func code(name string, t map[string]string) Field {
	return Field{Name: name, Kind: KindCode, Table: t}
}

// Catalog maps a segment tag to its ordered positional layout,
// starting at element 1. Field names are the stable keys of the
// hierarchical output.
var Catalog = map[string][]Field{
	TagInterchange: {
		ident("authorization_information_qualifier"),
		ident("authorization_information"),
		ident("security_information_qualifier"),
		ident("security_information"),
		ident("interchange_sender_id_qualifier"),
		ident("interchange_sender_id"),
		ident("interchange_receiver_id_qualifier"),
		ident("interchange_receiver_id"),
		dated("interchange_date"),
		ident("interchange_time"),
		ident("interchange_control_standards_identifier"),
		ident("interchange_control_version_number"),
		ident("interchange_control_number"),
		ident("acknowledgement_requested"),
		ident("usage_indicator"),
		ident("component_element_separator"),
	},
	TagFunctionalGroup: {
		ident("functional_identifier_code"),
		ident("application_sender_code"),
		ident("application_receiver_id"),
		dated("date"),
		ident("time"),
		ident("group_control_number"),
		ident("responsible_agency_code"),
		ident("version_release_industry_identifier"),
	},
	TagTransactionHeader: {
		ident("transaction_set_identifier_code"),
		ident("transaction_set_control_number"),
	},
	TagFinancialInformation: {
		ident("transaction_handling_code"),
		decimal("monetary_amount"),
		ident("credit_debit_flag"),
		ident("payment_method_code"),
		ident("payment_format_code"),
		ident("dfi_id_number_qualifier"),
		ident("dfi_identification_number"),
		ident("account_number_qualifier"),
		ident("sender_bank_account_number"),
		ident("originating_company_identifier"),
		ident("originating_company_supplemental_code"),
		ident("dfi_identification_number_qualifier"),
		ident("receiver_or_provider_bank_id_number"),
		ident("account_number_qualifier_2"),
		ident("receiver_or_provider_account_number"),
		dated("check_issue_or_eft_effective_date"),
	},
	TagTrace: {
		ident("trace_type_code"),
		ident("reference_identification"),
		ident("originating_company_identifier"),
		ident("originating_company_supplemental_code"),
	},
	TagDate: {
		code("date_time_qualifier", elements.DateQualifiers),
		dated("date"),
		ident("time"),
		ident("time_code"),
		ident("date_time_period_format"),
		ident("date_time_period"),
	},
	TagOrganization: {
		code("entity_identifier_code", elements.EntityIdentifiers),
		ident("name"),
		ident("identification_code_qualifier"),
		ident("identification_code"),
	},
	TagAddress: {
		ident("address_line_1"),
		ident("address_line_2"),
	},
	TagLocation: {
		ident("city_name"),
		ident("state_code"),
		ident("postal_code"),
		ident("country_code"),
		ident("location_qualifier"),
		ident("location_identifier"),
	},
	TagContact: {
		code("contact_function_code", elements.ContactFunctionCodes),
		ident("contact_name"),
		code("communication_number_qualifier_1", elements.CommunicationQualifiers),
		ident("communication_number_1"),
		code("communication_number_qualifier_2", elements.CommunicationQualifiers),
		ident("communication_number_2"),
		code("communication_number_qualifier_3", elements.CommunicationQualifiers),
		ident("communication_number_3"),
		ident("contact_inquiry_reference"),
	},
	TagReference: {
		code("reference_identification_qualifier", elements.ReferenceQualifiers),
		ident("reference_identification"),
		ident("description"),
		ident("reference_identifier"),
	},
	TagAssignedNumber: {
		integer("assigned_number"),
	},
	TagClaim: {
		ident("patient_control_number"),
		ident("claim_status_code"),
		decimal("total_claim_charge_amount"),
		decimal("total_claim_payment_amount"),
		decimal("patient_responsibility_amount"),
		ident("claim_filing_indicator_code"),
		ident("payer_claim_control_number"),
		ident("facility_type_code"),
		ident("claim_frequency_code"),
		ident("patient_status_code"),
		ident("diagnosis_related_group_code"),
		decimal("drg_weight"),
		decimal("discharge_fraction"),
	},
	TagAdjustment: {
		code("claim_adjustment_group_code", elements.AdjustmentGroupCodes),
		ident("adjustment_reason_code"),
		decimal("adjustment_amount"),
		ident("adjustment_quantity"),
		ident("adjustment_reason_code_2"),
		decimal("adjustment_amount_2"),
		ident("adjustment_quantity_2"),
		ident("adjustment_reason_code_3"),
		decimal("adjustment_amount_3"),
		ident("adjustment_quantity_3"),
		ident("adjustment_reason_code_4"),
		decimal("adjustment_amount_4"),
		ident("adjustment_quantity_4"),
		ident("adjustment_reason_code_5"),
		decimal("adjustment_amount_5"),
		ident("adjustment_quantity_5"),
		ident("adjustment_reason_code_6"),
		decimal("adjustment_amount_6"),
		ident("adjustment_quantity_6"),
	},
	TagEntity: {
		code("entity_identifier_code", elements.EntityIdentifiers),
		ident("entity_type_qualifier"),
		ident("last_name"),
		ident("first_name"),
		ident("middle_name"),
		ident("name_prefix"),
		ident("name_suffix"),
		ident("identification_code_qualifier"),
		ident("identification_code"),
		ident("entity_relationship_code"),
		ident("entity_identifier_code_2"),
		ident("identification_code_qualifier_2"),
	},
	TagAmount: {
		code("amount_qualifier_code", elements.AmountQualifiers),
		decimal("monetary_amount"),
		ident("credit_debit_flag_code"),
	},
	TagService: {
		ident("service_type_code"),
		decimal("charge_amount"),
		decimal("payment_amount"),
		ident("revenue_code"),
		integer("units_of_service_paid"),
		integer("original_units_of_service"),
		dated("adjudicated_date"),
	},
	TagRemark: {
		code("code_list_qualifier_code", elements.RemarkQualifiers),
		ident("remark_code"),
	},
	TagProviderAdjustment: {
		ident("provider_identifier"),
		dated("fiscal_period_date"),
		ident("provider_adjustment_identifier"),
		decimal("provider_adjustment_amount"),
		ident("provider_adjustment_identifier_2"),
		decimal("provider_adjustment_amount_2"),
	},
	TagTransactionTrailer: {
		integer("number_of_included_segments"),
		ident("transaction_set_control_number"),
	},
	TagGroupTrailer: {
		integer("number_of_transaction_sets_included"),
		ident("group_control_number"),
	},
	TagInterchangeTrailer: {
		integer("number_of_included_functional_groups"),
		ident("interchange_control_number"),
	},
}

// Render maps a segment's elements to the catalog field names. Values
// are trimmed of surrounding whitespace, same as the typed layer, so
// fixed-width ISA padding does not leak into the view. Missing
// trailing elements render as empty strings rather than omitted keys.
func Render(seg tokenizer.Segment) map[string]string {
	layout, ok := Catalog[seg.Tag]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(layout))
	for i, field := range layout {
		out[field.Name] = elements.Identifier(seg.Element(i + 1))
	}
	return out
}

// Values maps a segment's elements through each field's coercion rule.
// Integers become ints when they parse, decimals keep their textual
// precision, dates become time.Time when they parse, code fields
// resolve through their table with raw passthrough on a miss.
func Values(seg tokenizer.Segment) map[string]any {
	layout, ok := Catalog[seg.Tag]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(layout))
	for i, field := range layout {
		raw := seg.Element(i + 1)
		switch field.Kind {
		case KindInteger:
			if n, ok := elements.Integer(raw); ok {
				out[field.Name] = n
			} else {
				out[field.Name] = ""
			}
		case KindDecimal:
			out[field.Name] = elements.Decimal(raw)
		case KindDate:
			if d, ok := elements.Date(raw); ok {
				out[field.Name] = d
			} else {
				out[field.Name] = elements.Identifier(raw)
			}
		case KindCode:
			out[field.Name] = elements.Lookup(field.Table, raw)
		default:
			out[field.Name] = elements.Identifier(raw)
		}
	}
	return out
}
