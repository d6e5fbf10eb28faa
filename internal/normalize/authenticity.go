package normalize

import "github.com/hydro414e13/prvcsh/internal/model"

// The automation-posture dimensions default to their best reading, not
// their zero value: an authentic appearance, a perfect score, passing bot
// checks. A client that tests the dimension and omits a field must not be
// punished for the omission. The scorers only see worse-than-default values
// the client explicitly measured.

// Authenticity reads how genuine the browser profile appears.
func Authenticity(raw map[string]any) model.AuthenticitySignal {
	return model.AuthenticitySignal{
		Tested:              rawBool(raw, "tested", false),
		AuthenticAppearance: rawBool(raw, "authenticAppearance", true),
		AuthenticityScore:   rawInt(raw, "authenticityScore", 100),
		BotDetectionRisk:    rawString(raw, "botDetectionRisk", "Low"),
		SuspiciousFactors:   rawStrings(raw, "suspiciousFactors"),
		AuthenticityFactors: rawStrings(raw, "authenticityFactors"),
		Recommendations:     rawStrings(raw, "recommendations"),
	}
}

// Behavior reads the interaction naturalness probe.
func Behavior(raw map[string]any) model.BehaviorSignal {
	return model.BehaviorSignal{
		Tested:             rawBool(raw, "tested", false),
		NaturalBehavior:    rawBool(raw, "naturalBehavior", true),
		BehaviorScore:      rawInt(raw, "behaviorScore", 100),
		SuspiciousPatterns: rawStrings(raw, "suspiciousPatterns"),
		NaturalPatterns:    rawStrings(raw, "naturalPatterns"),
		InteractionMetrics: rawObject(raw, "interactionMetrics"),
	}
}

// Antibot reads how the profile fares against bot-detection systems.
func Antibot(raw map[string]any) model.AntibotSignal {
	return model.AntibotSignal{
		Tested:                  rawBool(raw, "tested", false),
		PassesBasicBotChecks:    rawBool(raw, "passesBasicBotChecks", true),
		PassesAdvancedBotChecks: rawBool(raw, "passesAdvancedBotChecks", true),
		DetectionRiskScore:      rawInt(raw, "detectionRiskScore", 0),
		TriggeredDetections:     rawStrings(raw, "triggeredDetections"),
		PassedDetections:        rawStrings(raw, "passedDetections"),
		VulnerableServices:      rawStrings(raw, "vulnerableServices"),
		DetectionEvasionAdvice:  rawStrings(raw, "detectionEvasionAdvice"),
	}
}

// PrivacyExtensions reads the impact analysis for detected privacy
// extensions. The three impact scores live in a nested extensionImpact
// object and default to 0 when it is absent.
func PrivacyExtensions(raw map[string]any) model.PrivacyExtensionsSignal {
	sig := model.PrivacyExtensionsSignal{
		Tested:             rawBool(raw, "tested", false),
		ExtensionsDetected: rawStrings(raw, "extensionsDetected"),
		PossibleExtensions: rawStrings(raw, "possibleExtensions"),
		Recommendations:    rawStrings(raw, "recommendations"),
	}
	if impact := rawObject(raw, "extensionImpact"); impact != nil {
		sig.PrivacyImpact = rawInt(impact, "privacy", 0)
		sig.AuthenticityImpact = rawInt(impact, "authenticity", 0)
		sig.CompatibilityImpact = rawInt(impact, "compatibility", 0)
	}
	return sig
}
