package catalog

// Default returns the built-in catalogue so the service runs without a
// catalogue file. Deployments supply their own document (CERTUS_CATALOGUE_PATH)
// with organization-specific weights and thresholds; the threshold values here
// are development defaults, not regulatory constants.
func Default() *Definitions {
	return &Definitions{
		Version:    "builtin-1",
		Disclaimer: "This certification reflects reviewer assessment at the time of issue and is not a guarantee of future conduct or performance.",
		Thresholds: Thresholds{Pass: 0.75, Conditional: 0.50},
		Pillars: []PillarDefinition{
			{
				Number:      1,
				Name:        "Legal Standing & Ownership",
				Description: "Corporate registration, licensing, and transparency of ultimate ownership.",
				Weight:      0.20,
				Criteria: []CriterionDefinition{
					{Code: "L1", Name: "Valid legal registration", Description: "Entity is duly registered and in good standing.", Weight: 0.30, AutoFail: true, MandatoryEvidence: []string{"certificate_of_incorporation", "good_standing_certificate"}},
					{Code: "L2", Name: "Operating licences current", Description: "All sector licences are valid and unencumbered.", Weight: 0.20, MandatoryEvidence: []string{"licence_register_extract"}},
					{Code: "L3", Name: "Ultimate beneficial ownership disclosed", Description: "UBO chain documented to natural persons.", Weight: 0.20, AutoFail: true, MandatoryEvidence: []string{"ubo_declaration", "shareholder_register"}},
					{Code: "L4", Name: "No undisclosed encumbrances", Description: "Charges and pledges over assets are declared.", Weight: 0.15, MandatoryEvidence: []string{"charges_register_extract"}},
					{Code: "L5", Name: "Contractual capacity", Description: "Signatory authority and board mandates documented.", Weight: 0.15, MandatoryEvidence: []string{"board_resolution"}},
				},
			},
			{
				Number:      2,
				Name:        "Financial Discipline",
				Description: "Quality and reliability of financial management and reporting.",
				Weight:      0.25,
				Criteria: []CriterionDefinition{
					{Code: "F1", Name: "Audited financial statements", Description: "Statements audited or independently reviewed for the last two periods.", Weight: 0.30, MandatoryEvidence: []string{"audited_financials"}},
					{Code: "F2", Name: "No undisclosed insolvency events", Description: "No concealed insolvency, moratorium, or composition proceedings.", Weight: 0.25, AutoFail: true, MandatoryEvidence: []string{"insolvency_register_extract"}},
					{Code: "F3", Name: "Tax compliance", Description: "Filings and payments current with tax authorities.", Weight: 0.20, MandatoryEvidence: []string{"tax_clearance_certificate"}},
					{Code: "F4", Name: "Working capital adequacy", Description: "Liquidity supports the committed order book.", Weight: 0.15, MandatoryEvidence: []string{"management_accounts"}},
					{Code: "F5", Name: "Banking references", Description: "Primary banking relationship confirmed in good order.", Weight: 0.10, MandatoryEvidence: []string{"bank_reference_letter"}},
				},
			},
			{
				Number:      3,
				Name:        "Business Model Viability",
				Description: "Sustainability of revenue, customers, and supply.",
				Weight:      0.20,
				Criteria: []CriterionDefinition{
					{Code: "B1", Name: "Revenue model coherence", Description: "Pricing and margins are internally consistent.", Weight: 0.25, MandatoryEvidence: []string{"business_plan"}},
					{Code: "B2", Name: "Customer concentration", Description: "No single customer dominates revenue without mitigation.", Weight: 0.20, MandatoryEvidence: []string{"customer_schedule"}},
					{Code: "B3", Name: "Supply chain resilience", Description: "Critical inputs have alternative sources.", Weight: 0.20, MandatoryEvidence: []string{"supplier_schedule"}},
					{Code: "B4", Name: "Track record", Description: "Delivery history supports claimed capacity.", Weight: 0.20, MandatoryEvidence: []string{"reference_contracts"}},
					{Code: "B5", Name: "No misrepresented trading history", Description: "Claimed trading history verifiable against records.", Weight: 0.15, AutoFail: true, MandatoryEvidence: []string{"trade_register_extract"}},
				},
			},
			{
				Number:      4,
				Name:        "Governance & Risk Management",
				Description: "Oversight structures, controls, and compliance posture.",
				Weight:      0.20,
				Criteria: []CriterionDefinition{
					{Code: "G1", Name: "Board oversight in place", Description: "Functioning board or equivalent oversight body.", Weight: 0.25, MandatoryEvidence: []string{"governance_charter"}},
					{Code: "G2", Name: "Sanctions and AML screening clear", Description: "Entity and principals clear of sanctions and AML flags.", Weight: 0.25, AutoFail: true, MandatoryEvidence: []string{"screening_report"}},
					{Code: "G3", Name: "Conflict of interest controls", Description: "Related-party dealings identified and managed.", Weight: 0.20, MandatoryEvidence: []string{"coi_register"}},
					{Code: "G4", Name: "Risk register maintained", Description: "Material risks identified with owners and mitigations.", Weight: 0.15, MandatoryEvidence: []string{"risk_register"}},
					{Code: "G5", Name: "Insurance coverage", Description: "Liability coverage appropriate to operations.", Weight: 0.15, MandatoryEvidence: []string{"insurance_certificates"}},
				},
			},
			{
				Number:      5,
				Name:        "Data Integrity",
				Description: "Accuracy and completeness of the information submitted for review.",
				Weight:      0.15,
				Criteria: []CriterionDefinition{
					{Code: "D1", Name: "Submission completeness", Description: "All required documents present and current.", Weight: 0.30, MandatoryEvidence: []string{"submission_checklist"}},
					{Code: "D2", Name: "Cross-document consistency", Description: "Figures agree across financials, tax, and declarations.", Weight: 0.25, MandatoryEvidence: []string{"reconciliation_workpaper"}},
					{Code: "D3", Name: "No falsified documents", Description: "No document shows signs of alteration or fabrication.", Weight: 0.25, AutoFail: true, MandatoryEvidence: []string{"document_review_notes"}},
					{Code: "D4", Name: "Data freshness", Description: "Key documents issued within validity windows.", Weight: 0.10, MandatoryEvidence: []string{"issue_date_schedule"}},
					{Code: "D5", Name: "Responsiveness to queries", Description: "Clarification requests answered substantively.", Weight: 0.10, MandatoryEvidence: []string{"correspondence_log"}},
				},
			},
		},
	}
}
