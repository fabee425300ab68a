// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package condition

import (
	"os"
	"time"

	. "gopkg.in/check.v1"
)

type EvalTestSuite struct {
	facts *fakeFacts
}

var _ = Suite(&EvalTestSuite{})

func (s *EvalTestSuite) SetUpTest(c *C) {
	s.facts = newFakeFacts()
}

func (s *EvalTestSuite) eval(k Kind, param string) (bool, error) {
	return s.eval2(k, param, nil)
}

func (s *EvalTestSuite) eval2(k Kind, param string, env []string) (bool, error) {
	cond := New(k, param, false, false)
	return registry[k](cond, env, s.facts)
}

// --- KernelVersion: spec.md §8 scenario 1 -----------------------------

func (s *EvalTestSuite) TestKernelVersionAllMustMatch(c *C) {
	s.facts.release = "5.15.0-42-generic"
	ok, err := s.eval(KernelVersion, ">= 5.10 <6.0 *-generic")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestKernelVersionSecondClauseFails(c *C) {
	s.facts.release = "6.1.0"
	ok, err := s.eval(KernelVersion, ">= 5.10 <6.0 *-generic")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestKernelVersionLegacySpaceFormFirstClauseOnly(c *C) {
	s.facts.release = "5.15.0"
	ok, err := s.eval(KernelVersion, ">= 5.10")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestKernelVersionLegacySpaceFormOnlyFirst(c *C) {
	s.facts.release = "5.15.0"
	_, err := s.eval(KernelVersion, ">=5.10 >= 6.0")
	c.Check(err, Equals, ErrUnparsable)
}

// --- OSRelease: spec.md §8 scenario 2 ---------------------------------

func (s *EvalTestSuite) TestOSReleaseExactAndVersionCompare(c *C) {
	s.facts.osRelease = map[string]string{"ID": "ubuntu", "VERSION_ID": "22.04"}

	ok, err := s.eval(OSRelease, "ID=ubuntu VERSION_ID>=20.04")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	ok, err = s.eval(OSRelease, "ID=debian")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)

	ok, err = s.eval(OSRelease, "VERSION_ID=22.4")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestOSReleaseMissingKeyIsEmptyString(c *C) {
	// A key absent from os-release compares as the empty string, so
	// "!=something" against a missing key holds.
	ok, err := s.eval(OSRelease, "NOSUCHKEY!=something")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	ok, err = s.eval(OSRelease, "NOSUCHKEY=something")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestOSReleaseNoWhitespaceAroundOp(c *C) {
	_, err := s.eval(OSRelease, "ID =ubuntu")
	c.Check(err, Equals, ErrUnparsable)
}

// --- NeedsUpdate: spec.md §8 scenario 4 -------------------------------

func (s *EvalTestSuite) TestNeedsUpdateUpdatedMissing(c *C) {
	s.facts.stats["/usr/"] = fakeFileInfo{}
	ok, err := s.eval(NeedsUpdate, "/etc")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestNeedsUpdateSecondsDiffer(c *C) {
	s.facts.stats["/usr/"] = fakeFileInfo{modTime: time.Unix(1700000000, 500)}
	s.facts.stats["/etc/.updated"] = fakeFileInfo{modTime: time.Unix(1700000100, 0)}
	ok, err := s.eval(NeedsUpdate, "/etc")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false, Commentf("target newer than /usr"))

	s.facts.stats["/usr/"] = fakeFileInfo{modTime: time.Unix(1700000200, 500)}
	ok, err = s.eval(NeedsUpdate, "/etc")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true, Commentf("/usr newer than target"))
}

func (s *EvalTestSuite) TestNeedsUpdateNsecGuard(c *C) {
	// Same second, but one side has zero nsec: filesystem lacks nsec
	// resolution so fall through to the TIMESTAMP_NSEC= comparison
	// instead of trusting the (untrustworthy) nsec fields directly.
	s.facts.stats["/usr/"] = fakeFileInfo{modTime: time.Unix(1700000000, 0)}
	s.facts.stats["/etc/.updated"] = fakeFileInfo{modTime: time.Unix(1700000000, 999)}
	s.facts.files["/etc/.updated"] = []byte("TIMESTAMP_NSEC=1700000001000000000\n")
	ok, err := s.eval(NeedsUpdate, "/etc")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false, Commentf("TIMESTAMP_NSEC is after /usr's mtime"))
}

func (s *EvalTestSuite) TestNeedsUpdateOverride(c *C) {
	t := true
	s.facts.needsUpd = &t
	ok, err := s.eval(NeedsUpdate, "/anything")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	f := false
	s.facts.needsUpd = &f
	ok, err = s.eval(NeedsUpdate, "/anything")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestNeedsUpdateRelativeParameterAlwaysTrue(c *C) {
	ok, err := s.eval(NeedsUpdate, "relative/path")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestNeedsUpdateReadOnlyFSIsFalse(c *C) {
	s.facts.roFS["/etc"] = true
	ok, err := s.eval(NeedsUpdate, "/etc")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestNeedsUpdateInInitrdIsFalse(c *C) {
	s.facts.initrd = true
	ok, err := s.eval(NeedsUpdate, "/etc")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

// --- PSI: spec.md §8 scenario 5 ---------------------------------------

func (s *EvalTestSuite) TestIOPressureGlobal(c *C) {
	s.facts.pressures["/proc/pressure/io#full"] = &Pressure{Avg10: 2000, Avg60: 2000, Avg300: 40}
	ok, err := s.eval(IOPressure, "5000")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	ok, err = s.eval(IOPressure, "10/10sec")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestPressureFallsBackToSomeLine(c *C) {
	s.facts.pressures["/proc/pressure/cpu#some"] = &Pressure{Avg300: 10}
	ok, err := s.eval(CPUPressure, "20")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestPressureMissingFacilityIsSkipPass(c *C) {
	ok, err := s.eval(IOPressure, "10")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestPressureCgroupScopedRequiresUnifiedHierarchy(c *C) {
	s.facts.unified = false
	ok, err := s.eval(MemoryPressure, "app.slice:5000")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true, Commentf("skip-pass without the unified hierarchy"))
}

func (s *EvalTestSuite) TestPressureCgroupScopedStripsInitScope(c *C) {
	s.facts.unified = true
	s.facts.cgMask = CGroupMaskMemory
	s.facts.rootScope = "/user.slice/init.scope"
	s.facts.slicePath["app.slice"] = "/app.slice"
	s.facts.pressures["/user.slice/app.slice/memory.pressure#full"] = &Pressure{Avg300: 10}
	ok, err := s.eval(MemoryPressure, "app.slice:5000")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestPressureUnparsableWindow(c *C) {
	_, err := s.eval(IOPressure, "10/2min")
	c.Check(err, Equals, ErrUnparsable)
}

// --- Firmware: spec.md §8 scenario 6 -----------------------------------

func (s *EvalTestSuite) TestFirmwareSMBIOSGlob(c *C) {
	s.facts.files["/sys/class/dmi/id/sys_vendor"] = []byte("Dell Inc.\n")
	ok, err := s.eval(Firmware, "smbios-field(sys_vendor =$ *Dell*)")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestFirmwareSMBIOSVersionCompare(c *C) {
	s.facts.files["/sys/class/dmi/id/bios_version"] = []byte("2.10\n")
	ok, err := s.eval(Firmware, "smbios-field(bios_version>=2.1)")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestFirmwareDeviceTree(c *C) {
	s.facts.stats["/sys/firmware/device-tree/"] = fakeFileInfo{}
	ok, err := s.eval(Firmware, "device-tree")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestFirmwareDeviceTreeCompatible(c *C) {
	s.facts.files["/proc/device-tree/compatible"] = []byte("foo,bar\x00baz,qux\x00")
	ok, err := s.eval(Firmware, "device-tree-compatible(baz,qux)")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	ok, err = s.eval(Firmware, "device-tree-compatible(nope)")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestFirmwareUEFI(c *C) {
	s.facts.efiBoot = true
	ok, err := s.eval(Firmware, "uefi")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

// --- Path predicates ---------------------------------------------------

func (s *EvalTestSuite) TestPathIsReadWriteENOENTIsTrue(c *C) {
	// No entry in roFS or statErrs: PathIsReadOnlyFS returns false, nil
	// by default (fakeFacts zero value), which already means
	// read-write; exercise the explicit ENOENT branch too.
	s.facts.statErrs["/missing"] = os.ErrNotExist
	ok, err := s.eval(PathIsReadWrite, "/missing")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestPathIsReadWriteReadOnly(c *C) {
	s.facts.roFS["/ro"] = true
	ok, err := s.eval(PathIsReadWrite, "/ro")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestPathIsEncryptedENOENTIsFalse(c *C) {
	s.facts.statErrs["/missing"] = os.ErrNotExist
	ok, err := s.eval(PathIsEncrypted, "/missing")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestDirectoryNotEmptyENOENTIsFalse(c *C) {
	s.facts.statErrs["/missing"] = os.ErrNotExist
	ok, err := s.eval(DirectoryNotEmpty, "/missing")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestFileNotEmptyRequiresRegularFile(c *C) {
	s.facts.stats["/f"] = fakeFileInfo{size: 10, mode: 0}
	ok, err := s.eval(FileNotEmpty, "/f")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	s.facts.stats["/d"] = fakeFileInfo{size: 10, mode: os.ModeDir}
	ok, err = s.eval(FileNotEmpty, "/d")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestFileIsExecutable(c *C) {
	s.facts.stats["/bin/x"] = fakeFileInfo{mode: 0755}
	ok, err := s.eval(FileIsExecutable, "/bin/x")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	s.facts.stats["/etc/x"] = fakeFileInfo{mode: 0644}
	ok, err = s.eval(FileIsExecutable, "/etc/x")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}

// --- KernelCommandLine / Environment ------------------------------------

func (s *EvalTestSuite) TestKernelCommandLineBareToken(c *C) {
	s.facts.cmdline = `quiet splash foo=bar`
	ok, _ := s.eval(KernelCommandLine, "quiet")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(KernelCommandLine, "foo")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(KernelCommandLine, "bar")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestKernelCommandLineKeyValueExact(c *C) {
	s.facts.cmdline = `foo=bar baz=qux`
	ok, _ := s.eval(KernelCommandLine, "foo=bar")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(KernelCommandLine, "foo=baz")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestEnvironment(c *C) {
	ok, _ := s.eval2(Environment, "FOO=bar", []string{"FOO=bar", "BAZ=qux"})
	c.Check(ok, Equals, true)
	ok, _ = s.eval2(Environment, "BAZ", []string{"FOO=bar", "BAZ=qux"})
	c.Check(ok, Equals, true)
	ok, _ = s.eval2(Environment, "MISSING", []string{"FOO=bar"})
	c.Check(ok, Equals, false)
}

// --- User/Group ----------------------------------------------------------

func (s *EvalTestSuite) TestUserByUID(c *C) {
	s.facts.uid = 1000
	ok, _ := s.eval(User, "1000")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(User, "1001")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestUserSystemUID(c *C) {
	s.facts.uid = 42
	ok, _ := s.eval(User, "@system")
	c.Check(ok, Equals, true)

	s.facts.uid = 1500
	s.facts.euid = 1500
	ok, _ = s.eval(User, "@system")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestUserPID1OnlyRoot(c *C) {
	s.facts.pid = 1
	s.facts.username = "someone"
	s.facts.uidByName["bob"] = 77

	// The literal current login name always matches, PID 1 or not.
	ok, _ := s.eval(User, "someone")
	c.Check(ok, Equals, true)

	// Any other name falls back to an NSS-style lookup, which PID 1
	// refuses to do except for the literal name "root".
	ok, _ = s.eval(User, "root")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(User, "bob")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestUserByName(c *C) {
	s.facts.username = "alice"
	ok, _ := s.eval(User, "alice")
	c.Check(ok, Equals, true)

	s.facts.uidByName["bob"] = 2000
	s.facts.uid = 2000
	ok, _ = s.eval(User, "bob")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestGroupByGID(c *C) {
	s.facts.inGID[100] = true
	ok, _ := s.eval(Group, "100")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Group, "200")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestGroupByName(c *C) {
	s.facts.inGroup["wheel"] = true
	ok, _ := s.eval(Group, "wheel")
	c.Check(ok, Equals, true)
}

// --- Virtualization / Architecture / Host --------------------------------

func (s *EvalTestSuite) TestVirtualizationPrivateUsers(c *C) {
	s.facts.userns = true
	ok, _ := s.eval(Virtualization, "private-users")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestVirtualizationBooleanish(c *C) {
	s.facts.virt = VirtKVM
	ok, _ := s.eval(Virtualization, "yes")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Virtualization, "no")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestVirtualizationClassAndExact(c *C) {
	s.facts.virt = VirtDocker
	ok, _ := s.eval(Virtualization, "container")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Virtualization, "vm")
	c.Check(ok, Equals, false)
	ok, _ = s.eval(Virtualization, "docker")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestArchitectureNative(c *C) {
	s.facts.native = "x86-64"
	s.facts.machine = "x86_64"
	ok, _ := s.eval(Architecture, "native")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestArchitectureExplicit(c *C) {
	s.facts.machine = "aarch64"
	ok, _ := s.eval(Architecture, "arm64")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Architecture, "x86-64")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestHostMachineID(c *C) {
	s.facts.machineID = "0123456789abcdef0123456789abcdef"
	ok, _ := s.eval(Host, "0123456789abcdef0123456789abcdef")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestHostHostnameGlob(c *C) {
	s.facts.hostname = "my-laptop"
	ok, _ := s.eval(Host, "my-*")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Host, "other-*")
	c.Check(ok, Equals, false)
}

// --- Security / Capability -----------------------------------------------

func (s *EvalTestSuite) TestSecurityModule(c *C) {
	s.facts.secmods["apparmor"] = true
	ok, _ := s.eval(Security, "apparmor")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Security, "selinux")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestSecurityTPM2EitherSource(c *C) {
	s.facts.tpm2 = TPM2SupportFirmware
	ok, _ := s.eval(Security, "tpm2")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestCapability(c *C) {
	s.facts.caps["cap_net_admin"] = 12
	s.facts.capBnd = 1 << 12
	ok, err := s.eval(Capability, "cap_net_admin")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)

	_, err = s.eval(Capability, "cap_bogus")
	c.Check(err, Equals, ErrUnparsable)
}

// --- CPUs / Memory / CPUFeature ------------------------------------------

func (s *EvalTestSuite) TestCPUsDefaultComparatorIsGE(c *C) {
	s.facts.cpus = 4
	ok, _ := s.eval(CPUs, "2")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(CPUs, "8")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestMemorySuffixes(c *C) {
	s.facts.memory = 4 * (1 << 30)
	ok, _ := s.eval(Memory, ">=2G")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(Memory, "<1G")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestCPUFeature(c *C) {
	s.facts.cpuFlags["avx2"] = true
	ok, _ := s.eval(CPUFeature, "AVX2")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(CPUFeature, "avx512")
	c.Check(ok, Equals, false)
}

// --- ControlGroupController -----------------------------------------------

func (s *EvalTestSuite) TestControlGroupControllerV2(c *C) {
	s.facts.unified = true
	ok, _ := s.eval(ControlGroupController, "v2")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(ControlGroupController, "v1")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestControlGroupControllerMask(c *C) {
	s.facts.cgMask = CGroupMaskCPU | CGroupMaskIO
	ok, _ := s.eval(ControlGroupController, "cpu")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(ControlGroupController, "memory")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestControlGroupControllerUnparseableIgnored(c *C) {
	ok, err := s.eval(ControlGroupController, "")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

// --- ACPower / FirstBoot / Credential --------------------------------------

func (s *EvalTestSuite) TestACPower(c *C) {
	s.facts.acPower = true
	ok, _ := s.eval(ACPower, "yes")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(ACPower, "no")
	c.Check(ok, Equals, false)
}

func (s *EvalTestSuite) TestFirstBootNoOverride(c *C) {
	s.facts.statErrs["/run/systemd/first-boot"] = os.ErrNotExist
	ok, _ := s.eval(FirstBoot, "no")
	c.Check(ok, Equals, true)
	ok, _ = s.eval(FirstBoot, "yes")
	c.Check(ok, Equals, false)
}

// TestFirstBootOverrideUnconditional encodes spec.md §9's Open
// Question: once the override parses, its own value wins regardless
// of the condition's own parameter.
func (s *EvalTestSuite) TestFirstBootOverrideUnconditional(c *C) {
	t := true
	s.facts.firstBoot = &t
	ok, _ := s.eval(FirstBoot, "no")
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestCredentialSkipsNotConfiguredAndENOENT(c *C) {
	s.facts.credDirOK = false
	s.facts.encDir = "/run/credentials/enc"
	s.facts.encDirOK = true
	ok, err := s.eval(Credential, "db-password")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)

	s.facts.stats["/run/credentials/enc/db-password"] = fakeFileInfo{}
	ok, err = s.eval(Credential, "db-password")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
}

func (s *EvalTestSuite) TestCredentialNameInvalid(c *C) {
	ok, err := s.eval(Credential, "../escape")
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
}
