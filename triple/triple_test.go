package triple

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		arch    Arch
		os      OS
		env     Environment
		format  ObjectFormat
		version string
	}{
		{"aarch64-unknown-linux-gnu", ArchAArch64, OSLinux, EnvGNU, FormatELF, ""},
		{"aarch64-linux-gnu", ArchAArch64, OSLinux, EnvGNU, FormatELF, ""},
		{"aarch64-linux-android", ArchAArch64, OSLinux, EnvAndroid, FormatELF, ""},
		{"arm64-apple-ios14.0", ArchAArch64, OSIOS, EnvUnknown, FormatMachO, "14.0"},
		{"arm64-apple-macosx11.0", ArchAArch64, OSMacOSX, EnvUnknown, FormatMachO, "11.0"},
		{"aarch64-pc-windows-msvc", ArchAArch64, OSWindows, EnvMSVC, FormatCOFF, ""},
		{"aarch64-w64-mingw32", ArchAArch64, OSWindows, EnvGNU, FormatCOFF, ""},
		{"aarch64-w64-windows-gnu", ArchAArch64, OSWindows, EnvGNU, FormatCOFF, ""},
		{"aarch64_be-unknown-linux-gnu", ArchAArch64BE, OSLinux, EnvGNU, FormatELF, ""},
		{"arm64_32-apple-watchos5", ArchAArch64_32, OSWatchOS, EnvUnknown, FormatMachO, "5"},
		{"aarch64-unknown-fuchsia", ArchAArch64, OSFuchsia, EnvUnknown, FormatELF, ""},
		{"aarch64-apple-ios-macho", ArchAArch64, OSIOS, EnvMachO, FormatMachO, ""},
		{"aarch64-none-elf", ArchAArch64, OSUnknown, EnvUnknown, FormatELF, ""},
		{"", ArchUnknown, OSUnknown, EnvUnknown, FormatELF, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Parse(tt.in)
			assert.Check(t, is.Equal(got.Arch, tt.arch))
			assert.Check(t, is.Equal(got.OS, tt.os))
			assert.Check(t, is.Equal(got.Env, tt.env))
			assert.Check(t, is.Equal(got.Format, tt.format))
			assert.Check(t, is.Equal(got.OSVersion, tt.version))
		})
	}
}

func TestPredicates(t *testing.T) {
	ios := Parse("arm64-apple-ios8.1")
	assert.Check(t, ios.IsOSDarwin())
	assert.Check(t, ios.IsiOS())
	assert.Check(t, ios.IsOSBinFormatMachO())
	assert.Check(t, is.Equal(ios.IOSVersion(), 8))

	mac := Parse("arm64-apple-macosx11.0")
	assert.Check(t, mac.IsOSDarwin())
	assert.Check(t, !mac.IsiOS())
	assert.Check(t, is.Equal(mac.IOSVersion(), 0))

	win := Parse("aarch64-pc-windows-msvc")
	assert.Check(t, win.IsOSWindows())
	assert.Check(t, win.IsOSBinFormatCOFF())
	assert.Check(t, !win.IsOSBinFormatELF())

	android := Parse("aarch64-linux-android")
	assert.Check(t, android.IsAndroid())
	assert.Check(t, android.IsOSLinux())

	ilp32 := Parse("aarch64-linux-gnu_ilp32")
	assert.Check(t, ilp32.IsArch32Bit())
	assert.Check(t, Parse("arm64_32-apple-watchos").IsArch32Bit())
	assert.Check(t, !Parse("aarch64-linux-gnu").IsArch32Bit())

	assert.Check(t, !Parse("aarch64_be-linux-gnu").IsLittleEndian())
	assert.Check(t, Parse("aarch64-linux-gnu").IsLittleEndian())
}

func TestString(t *testing.T) {
	assert.Equal(t, Parse("aarch64-linux-gnu").String(), "aarch64-unknown-linux-gnu")
	assert.Equal(t, Parse("arm64-apple-ios14.0").String(), "aarch64-apple-ios14.0")
	assert.Equal(t, Parse("aarch64-w64-mingw32").String(), "aarch64-w64-windows-gnu")
}

func TestHostParses(t *testing.T) {
	h := Host()
	assert.Check(t, h.Arch != ArchUnknown)
	assert.Check(t, h.Format != FormatUnknown)
}
