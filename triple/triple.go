// Completion: 100% - Triple parsing complete
package triple

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// triple.go - Target triples
//
// A triple is arch-vendor-os[-environment], e.g. "aarch64-unknown-linux-gnu"
// or "arm64-apple-ios14.0". The binary format is implied by the OS unless the
// environment names one explicitly ("aarch64-none-elf").
//
// Every predicate here is a pure function of the Triple value. Nothing is
// cached, because one Triple is shared by every resolved subtarget in a module.

// Arch is the instruction set architecture
type Arch int

const (
	ArchUnknown Arch = iota
	ArchAArch64
	ArchAArch64BE
	ArchAArch64_32
	ArchX86_64
	ArchRiscv64
)

func (a Arch) String() string {
	switch a {
	case ArchAArch64:
		return "aarch64"
	case ArchAArch64BE:
		return "aarch64_be"
	case ArchAArch64_32:
		return "arm64_32"
	case ArchX86_64:
		return "x86_64"
	case ArchRiscv64:
		return "riscv64"
	default:
		return "unknown"
	}
}

// ParseArch parses an architecture component (also accepts GOARCH values)
func ParseArch(s string) Arch {
	switch strings.ToLower(s) {
	case "aarch64", "arm64", "arm64e":
		return ArchAArch64
	case "aarch64_be":
		return ArchAArch64BE
	case "arm64_32", "aarch64_32":
		return ArchAArch64_32
	case "x86_64", "amd64", "x86-64":
		return ArchX86_64
	case "riscv64", "rv64":
		return ArchRiscv64
	default:
		return ArchUnknown
	}
}

// OS is the operating system component
type OS int

const (
	OSUnknown OS = iota
	OSLinux
	OSDarwin
	OSMacOSX
	OSIOS
	OSTvOS
	OSWatchOS
	OSFreeBSD
	OSNetBSD
	OSOpenBSD
	OSFuchsia
	OSWindows
)

func (o OS) String() string {
	switch o {
	case OSLinux:
		return "linux"
	case OSDarwin:
		return "darwin"
	case OSMacOSX:
		return "macosx"
	case OSIOS:
		return "ios"
	case OSTvOS:
		return "tvos"
	case OSWatchOS:
		return "watchos"
	case OSFreeBSD:
		return "freebsd"
	case OSNetBSD:
		return "netbsd"
	case OSOpenBSD:
		return "openbsd"
	case OSFuchsia:
		return "fuchsia"
	case OSWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// osPrefixes is checked in order, so longer names must come before their prefixes
var osPrefixes = []struct {
	prefix string
	os     OS
}{
	{"linux", OSLinux},
	{"darwin", OSDarwin},
	{"macosx", OSMacOSX},
	{"macos", OSMacOSX},
	{"ios", OSIOS},
	{"tvos", OSTvOS},
	{"watchos", OSWatchOS},
	{"freebsd", OSFreeBSD},
	{"netbsd", OSNetBSD},
	{"openbsd", OSOpenBSD},
	{"fuchsia", OSFuchsia},
	{"windows", OSWindows},
	{"win32", OSWindows},
	{"mingw32", OSWindows},
}

// parseOS splits an OS component such as "ios8.1" into the OS and its version
func parseOS(s string) (OS, string) {
	lower := strings.ToLower(s)
	for _, p := range osPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.os, lower[len(p.prefix):]
		}
	}
	return OSUnknown, ""
}

// ParseOS parses an OS component (also accepts GOOS values)
func ParseOS(s string) OS {
	os, _ := parseOS(s)
	return os
}

// Environment is the optional fourth triple component
type Environment int

const (
	EnvUnknown Environment = iota
	EnvGNU
	EnvGNUILP32
	EnvMusl
	EnvAndroid
	EnvMSVC
	EnvItanium
	EnvCygnus
	EnvMachO
	EnvELF
	EnvCOFF
)

func (e Environment) String() string {
	switch e {
	case EnvGNU:
		return "gnu"
	case EnvGNUILP32:
		return "gnu_ilp32"
	case EnvMusl:
		return "musl"
	case EnvAndroid:
		return "android"
	case EnvMSVC:
		return "msvc"
	case EnvItanium:
		return "itanium"
	case EnvCygnus:
		return "cygnus"
	case EnvMachO:
		return "macho"
	case EnvELF:
		return "elf"
	case EnvCOFF:
		return "coff"
	default:
		return "unknown"
	}
}

func parseEnvironment(s string) Environment {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "gnu_ilp32"):
		return EnvGNUILP32
	case strings.HasPrefix(lower, "gnu"):
		return EnvGNU
	case strings.HasPrefix(lower, "musl"):
		return EnvMusl
	case strings.HasPrefix(lower, "android"):
		return EnvAndroid
	case strings.HasPrefix(lower, "msvc"):
		return EnvMSVC
	case strings.HasPrefix(lower, "itanium"):
		return EnvItanium
	case strings.HasPrefix(lower, "cygnus"):
		return EnvCygnus
	case lower == "macho":
		return EnvMachO
	case lower == "elf":
		return EnvELF
	case lower == "coff":
		return EnvCOFF
	default:
		return EnvUnknown
	}
}

// ObjectFormat is the binary format the triple produces
type ObjectFormat int

const (
	FormatUnknown ObjectFormat = iota
	FormatELF
	FormatMachO
	FormatCOFF
)

func (f ObjectFormat) String() string {
	switch f {
	case FormatELF:
		return "elf"
	case FormatMachO:
		return "macho"
	case FormatCOFF:
		return "coff"
	default:
		return "unknown"
	}
}

// Triple is a parsed target triple
type Triple struct {
	Arch      Arch
	Vendor    string
	OS        OS
	OSVersion string // e.g. "14.0" for "ios14.0", empty when absent
	Env       Environment
	Format    ObjectFormat
}

// Parse parses a target triple. It never fails: unrecognized components are
// kept as their Unknown value, the same way an unrecognized CPU name falls back
// to the generic processor.
func Parse(s string) Triple {
	parts := strings.Split(s, "-")
	var (
		t      Triple
		osName string
	)
	if len(parts) > 0 {
		t.Arch = ParseArch(parts[0])
	}
	if len(parts) > 1 {
		t.Vendor = strings.ToLower(parts[1])
	}
	if len(parts) > 2 {
		osName = parts[2]
		t.OS, t.OSVersion = parseOS(osName)
	}
	if len(parts) > 3 {
		t.Env = parseEnvironment(parts[3])
	}
	// Short forms like "aarch64-linux-gnu" leave the vendor out
	if t.OS == OSUnknown && len(parts) > 1 {
		if os, version := parseOS(parts[1]); os != OSUnknown {
			osName = parts[1]
			t.Vendor = "unknown"
			t.OS, t.OSVersion = os, version
			t.Env = EnvUnknown
			if len(parts) > 2 {
				t.Env = parseEnvironment(parts[2])
			}
		}
	}
	// mingw32 is Windows with the GNU environment
	if t.Env == EnvUnknown && strings.HasPrefix(strings.ToLower(osName), "mingw32") {
		t.Env = EnvGNU
	}
	t.Format = defaultFormat(t)
	return t
}

// defaultFormat mirrors the usual OS to binary format mapping, with an
// explicit object format environment taking priority
func defaultFormat(t Triple) ObjectFormat {
	switch t.Env {
	case EnvMachO:
		return FormatMachO
	case EnvELF:
		return FormatELF
	case EnvCOFF:
		return FormatCOFF
	}
	switch {
	case t.IsOSDarwin():
		return FormatMachO
	case t.OS == OSWindows:
		return FormatCOFF
	default:
		return FormatELF
	}
}

// String returns the canonical arch-vendor-os[version][-env] form
func (t Triple) String() string {
	vendor := t.Vendor
	if vendor == "" {
		vendor = "unknown"
	}
	s := fmt.Sprintf("%s-%s-%s%s", t.Arch, vendor, t.OS, t.OSVersion)
	if t.Env != EnvUnknown {
		s += "-" + t.Env.String()
	}
	return s
}

// IsOSDarwin returns true for any Apple OS
func (t Triple) IsOSDarwin() bool {
	switch t.OS {
	case OSDarwin, OSMacOSX, OSIOS, OSTvOS, OSWatchOS:
		return true
	}
	return false
}

// IsiOS returns true for iOS and tvOS, which shares the iOS ABI
func (t Triple) IsiOS() bool {
	return t.OS == OSIOS || t.OS == OSTvOS
}

// IsOSLinux returns true for Linux, including Android
func (t Triple) IsOSLinux() bool {
	return t.OS == OSLinux
}

// IsAndroid returns true for linux-android
func (t Triple) IsAndroid() bool {
	return t.Env == EnvAndroid
}

// IsOSWindows returns true for Windows
func (t Triple) IsOSWindows() bool {
	return t.OS == OSWindows
}

// IsOSFuchsia returns true for Fuchsia
func (t Triple) IsOSFuchsia() bool {
	return t.OS == OSFuchsia
}

// IsOSBinFormatELF returns true if the target produces ELF objects
func (t Triple) IsOSBinFormatELF() bool {
	return t.Format == FormatELF
}

// IsOSBinFormatMachO returns true if the target produces Mach-O objects
func (t Triple) IsOSBinFormatMachO() bool {
	return t.Format == FormatMachO
}

// IsOSBinFormatCOFF returns true if the target produces COFF objects
func (t Triple) IsOSBinFormatCOFF() bool {
	return t.Format == FormatCOFF
}

// IsArch32Bit returns true for the ILP32 flavours of AArch64
func (t Triple) IsArch32Bit() bool {
	return t.Arch == ArchAArch64_32 || t.Env == EnvGNUILP32
}

// IsLittleEndian returns the default byte order implied by the arch
func (t Triple) IsLittleEndian() bool {
	return t.Arch != ArchAArch64BE
}

// MajorVersion returns the major OS version, or 0 when none is given
func (t Triple) MajorVersion() int {
	major, _, _ := strings.Cut(t.OSVersion, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}

// IOSVersion returns the major iOS version, or 0 for non-iOS targets
func (t Triple) IOSVersion() int {
	if !t.IsiOS() {
		return 0
	}
	return t.MajorVersion()
}

// Host returns the triple of the running process
func Host() Triple {
	arch := ParseArch(runtime.GOARCH)
	if arch == ArchUnknown {
		arch = ArchAArch64 // fallback
	}

	vendor := "unknown"
	env := "gnu"
	switch runtime.GOOS {
	case "darwin", "ios":
		vendor, env = "apple", ""
	case "windows":
		vendor, env = "pc", "msvc"
	case "android":
		env = "android"
	}

	goos := runtime.GOOS
	if goos == "android" {
		goos = "linux"
	}
	s := arch.String() + "-" + vendor + "-" + goos
	if env != "" {
		s += "-" + env
	}
	return Parse(s)
}
