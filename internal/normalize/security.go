package normalize

import "github.com/hydro414e13/prvcsh/internal/model"

// SSL reads the transport security summary for the scan connection.
func SSL(raw map[string]any) model.SSLSignal {
	return model.SSLSignal{
		Tested:   rawBool(raw, "tested", false),
		Secure:   rawBool(raw, "secure", false),
		Version:  rawString(raw, "version", model.Unknown),
		Cipher:   rawString(raw, "cipher", model.Unknown),
		Protocol: rawString(raw, "protocol", model.Unknown),
	}
}

// Password reads the client-side password strength check. The password
// itself never reaches the server, only the score and feedback.
func Password(raw map[string]any) model.PasswordSignal {
	return model.PasswordSignal{
		Performed: rawBool(raw, "tested", false),
		Score:     rawInt(raw, "score", 0),
		Feedback:  rawObject(raw, "feedback"),
	}
}

// SecurityHeaders reads the security-header posture the client measured.
func SecurityHeaders(raw map[string]any) model.SecurityHeadersSignal {
	sig := model.SecurityHeadersSignal{
		Tested:  rawBool(raw, "tested", false),
		Score:   rawInt(raw, "score", 0),
		Headers: rawStringMap(raw, "headers"),
	}
	items, ok := raw["missingHeaders"].([]any)
	if !ok {
		return sig
	}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sig.MissingHeaders = append(sig.MissingHeaders, model.MissingHeader{
			Name:        rawString(obj, "name", ""),
			Importance:  rawString(obj, "importance", ""),
			Description: rawString(obj, "description", ""),
		})
	}
	return sig
}

// Timezone reads the timezone consistency probe. The consistency flags
// default to true and confidence to 100, so an empty probe is treated as
// fully consistent rather than maximally suspicious.
func Timezone(raw map[string]any) model.TimezoneSignal {
	return model.TimezoneSignal{
		Tested:           rawBool(raw, "tested", false),
		Consistent:       rawBool(raw, "timezoneConsistent", true),
		ReportedTimezone: rawString(raw, "reportedTimezone", ""),
		DetectedTimezone: rawString(raw, "detectedTimezone", ""),
		OffsetConsistent: rawBool(raw, "offsetConsistent", true),
		ReportedOffset:   rawIntPtr(raw, "reportedOffset"),
		CalculatedOffset: rawIntPtr(raw, "calculatedOffset"),
		DSTStatus:        rawString(raw, "dstStatus", "unknown"),
		Confidence:       rawInt(raw, "timezoneConfidence", 100),
		Discrepancies:    rawStrings(raw, "discrepancies"),
	}
}
