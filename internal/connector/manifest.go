package connector

import "encoding/json"

// Package manager identifiers. The enumeration is closed; an empty string
// means no manager could be determined.
const (
	ManagerNPM  = "npm"
	ManagerPNPM = "pnpm"
	ManagerYarn = "yarn"
	ManagerBun  = "bun"
)

// packageJSON models the subset of a Node manifest needed for framework
// detection.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// frameworkChecks is a priority-ordered list of dependency-name checks. The
// first match wins.
var frameworkChecks = []struct {
	dep       string
	framework string
}{
	{"next", "Next.js"},
	{"nuxt", "Nuxt"},
	{"@angular/core", "Angular"},
	{"svelte", "Svelte"},
	{"react", "React"},
	{"vue", "Vue"},
	{"express", "Express"},
	{"fastify", "Fastify"},
}

// DetectFramework classifies a project from its manifest file content. The
// manifest name selects the parsing strategy: package.json is parsed as JSON,
// go.mod and Python manifests are classified by presence alone. Returns
// "unknown" when nothing matches; a heuristic, never an error.
func DetectFramework(manifestName string, content []byte) string {
	switch manifestName {
	case "package.json":
		var pkg packageJSON
		if err := json.Unmarshal(content, &pkg); err != nil {
			return "unknown"
		}
		for _, check := range frameworkChecks {
			if _, ok := pkg.Dependencies[check.dep]; ok {
				return check.framework
			}
			if _, ok := pkg.DevDependencies[check.dep]; ok {
				return check.framework
			}
		}
		return "Node.js"
	case "go.mod":
		return "Go"
	case "requirements.txt", "pyproject.toml":
		return "Python"
	case "Cargo.toml":
		return "Rust"
	default:
		return "unknown"
	}
}

// DetectPackageManager infers the package manager from lockfile names present
// at the project root. Returns an empty string when no lockfile matches.
func DetectPackageManager(rootFiles []string) string {
	byLockfile := map[string]string{
		"pnpm-lock.yaml":    ManagerPNPM,
		"yarn.lock":         ManagerYarn,
		"bun.lockb":         ManagerBun,
		"package-lock.json": ManagerNPM,
	}
	// Check in a fixed priority order so repos carrying several lockfiles
	// classify deterministically.
	for _, lock := range []string{"pnpm-lock.yaml", "yarn.lock", "bun.lockb", "package-lock.json"} {
		for _, f := range rootFiles {
			if f == lock {
				return byLockfile[lock]
			}
		}
	}
	return ""
}

// manifestCandidates lists manifest filenames probed during Connect, in
// priority order.
var manifestCandidates = []string{"package.json", "go.mod", "requirements.txt", "pyproject.toml", "Cargo.toml"}
