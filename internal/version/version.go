package version

const Value = "0.3.0"

func UserAgent() string {
	return "cspissues/" + Value + " (defensive security tooling)"
}
