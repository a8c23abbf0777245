package services

import (
	"regexp"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// Deterministic clause detectors. These run over the full normalised text
// and must produce a meaningful report with no generative model configured.
// All patterns are case-insensitive with dot matching newlines, compiled
// once at package load so a detector can never fail at match time - the
// only outcomes are "found" and "not found".
var (
	reLiability      = regexp.MustCompile(`(?is)(limitation of liability|liability)`)
	reLiabilityCap   = regexp.MustCompile(`(?is)(cap|maximum|aggregate)\s+(liability|amount)|\bpercent\b|\bfee|%`)
	reConfidential   = regexp.MustCompile(`(?is)(confidentiality|non-?disclosure|nda)`)
	reIndemnity      = regexp.MustCompile(`(?is)(indemnif(y|ication)|hold harmless)`)
	reTermination    = regexp.MustCompile(`(?is)(termination|term and termination)`)
	reDispute        = regexp.MustCompile(`(?is)(dispute resolution|arbitration|governing law|jurisdiction|venue)`)
	reForceMajeure   = regexp.MustCompile(`(?is)(force majeure|acts of god)`)
	reIP             = regexp.MustCompile(`(?is)(intellectual property|ip ownership|ownership of work|work product)`)
	reDataProtection = regexp.MustCompile(`(?is)(data protection|privacy|gdpr|pdpl|personal data|pii)`)

	reConvenience = regexp.MustCompile(`(?is)terminate\s+for\s+convenience`)
	reBuyerRole   = regexp.MustCompile(`(?is)(customer|client|buyer)`)
	reSellerRole  = regexp.MustCompile(`(?is)(supplier|vendor|provider|contractor|licensor)`)
)

// unilateralWindow is the span inspected around each termination-for-
// convenience mention when looking for one-sided role wording.
const unilateralWindow = 400

// hasLiabilityCap detects a limitation-of-liability section that also
// mentions a monetary or fee-based cap.
func hasLiabilityCap(text string) bool {
	if !reLiability.MatchString(text) {
		return false
	}
	return reLiabilityCap.MatchString(text)
}

// hasUnilateralTermination looks for "terminate for convenience" where
// exactly one party role is named nearby. This is a proximity heuristic
// and a low-confidence signal; it contributes a single medium finding,
// never more.
func hasUnilateralTermination(text string) bool {
	locs := reConvenience.FindAllStringIndex(text, -1)
	for _, loc := range locs {
		start := loc[0] - unilateralWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + unilateralWindow
		if end > len(text) {
			end = len(text)
		}
		span := text[start:end]

		hasBuyer := reBuyerRole.MatchString(span)
		hasSeller := reSellerRole.MatchString(span)
		if hasBuyer != hasSeller {
			return true
		}
	}
	return false
}

// runRuleChecks applies the deterministic checklist to the full text and
// returns the rule-layer buckets. Checks always run in the same order, so
// the layer is reproducible.
func runRuleChecks(text string) *domain.RiskReport {
	report := &domain.RiskReport{}

	if !hasLiabilityCap(text) {
		report.Risks = append(report.Risks, domain.RiskFinding{
			ID:             "risk_liability_cap_missing",
			Title:          "No liability cap",
			Severity:       domain.SeverityHigh,
			Finding:        "Limitation of Liability is absent or no monetary cap detected.",
			EvidenceChunks: []string{},
			Recommendation: "Add an aggregate cap (e.g., 12x monthly fees or fees paid in the preceding 12 months) with standard carve-outs.",
		})
	}

	if !reConfidential.MatchString(text) {
		report.MissingClauses = append(report.MissingClauses, domain.MissingClause{
			Clause: "Confidentiality",
			Why:    "Typical baseline NDA/confidentiality clause is missing; risk of uncontrolled disclosure.",
		})
	}

	if !reIndemnity.MatchString(text) {
		report.MissingClauses = append(report.MissingClauses, domain.MissingClause{
			Clause: "Indemnification",
			Why:    "No indemnity for third-party claims (e.g., IP infringement).",
		})
	}

	if !reTermination.MatchString(text) {
		report.MissingClauses = append(report.MissingClauses, domain.MissingClause{
			Clause: "Termination",
			Why:    "Termination for cause with cure periods should be defined.",
		})
	}

	if !reForceMajeure.MatchString(text) {
		report.MissingClauses = append(report.MissingClauses, domain.MissingClause{
			Clause: "Force Majeure",
			Why:    "Standard protection for events outside parties' control is missing.",
		})
	}

	if !reDispute.MatchString(text) {
		report.MissingClauses = append(report.MissingClauses, domain.MissingClause{
			Clause: "Dispute Resolution / Governing Law",
			Why:    "Governing law and forum/arbitration should be explicit and consistent.",
		})
	}

	if !reIP.MatchString(text) {
		report.MissingClauses = append(report.MissingClauses, domain.MissingClause{
			Clause: "Intellectual Property",
			Why:    "Ownership and license scope should be defined.",
		})
	}

	if hasUnilateralTermination(text) {
		report.NonStandard = append(report.NonStandard, domain.RiskFinding{
			ID:             "risk_unilateral_termination",
			Title:          "Unilateral termination for convenience",
			Severity:       domain.SeverityMedium,
			Finding:        "Termination for convenience appears to be granted to only one party.",
			EvidenceChunks: []string{},
			Recommendation: "Make termination for convenience mutual or remove it; define notice period and transition.",
		})
	}

	if !reDataProtection.MatchString(text) {
		report.Risks = append(report.Risks, domain.RiskFinding{
			ID:             "risk_data_protection_missing",
			Title:          "Data protection/privacy obligations not found",
			Severity:       domain.SeverityMedium,
			Finding:        "No clear personal data/security obligations or breach notice terms.",
			EvidenceChunks: []string{},
			Recommendation: "Add data protection clause (e.g., GDPR/PDPL compliance, security measures, breach notice).",
		})
	}

	return report
}
