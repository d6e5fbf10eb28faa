package normalize

import "github.com/hydro414e13/prvcsh/internal/model"

// Email reads the breach-exposure probe. When the client already ran its
// own lookup the result is used as-is. Otherwise the submitted address is
// returned to the caller for a server-side estimate; the address itself is
// never stored on the signal.
func Email(raw map[string]any) (model.EmailSignal, string) {
	sig := model.EmailSignal{Performed: rawBool(raw, "tested", false)}
	if !sig.Performed {
		return sig, ""
	}

	_, hasVerdict := raw["leakFound"]
	_, hasSites := raw["breachSites"]
	if hasVerdict && hasSites {
		sig.Leaked = rawBool(raw, "leakFound", false)
		sig.BreachSites = breachSites(raw["breachSites"])
		return sig, ""
	}
	return sig, rawString(raw, "email", "")
}

func breachSites(v any) []model.BreachSite {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	sites := make([]model.BreachSite, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sites = append(sites, model.BreachSite{
			Name:  rawString(obj, "name", ""),
			Date:  rawString(obj, "date", ""),
			Count: int64(rawFloat(obj, "count", 0)),
		})
	}
	return sites
}
