package selector

import "strings"

// Platforms lists the operating system flags every platform namespace
// defines, so that "if: win" on a linux target is false rather than
// undefined.
var Platforms = []string{"linux", "osx", "win", "unix", "emscripten", "wasi", "noarch"}

// Arches lists the architecture flags every platform namespace defines.
var Arches = []string{"x86", "x86_64", "aarch64", "arm64", "armv6l", "armv7l", "ppc64le", "ppc64", "s390x", "riscv64", "wasm32"}

// PlatformNamespace returns the selector flags for a conda subdir such as
// "linux-64" or "osx-arm64". Unknown subdirs yield every flag false.
func PlatformNamespace(subdir string) Namespace {
	ns := make(Namespace, len(Platforms)+len(Arches))
	for _, p := range Platforms {
		ns[p] = false
	}
	for _, a := range Arches {
		ns[a] = false
	}

	osName, arch, _ := strings.Cut(strings.TrimSpace(subdir), "-")
	if osName == "" {
		return ns
	}
	if _, known := ns[osName]; known {
		ns[osName] = true
	}
	switch osName {
	case "linux", "osx", "emscripten":
		ns["unix"] = true
	}

	switch arch {
	case "64":
		ns["x86_64"] = true
	case "32":
		ns["x86"] = true
	case "":
	default:
		if _, known := ns[arch]; known {
			ns[arch] = true
		}
	}
	return ns
}
