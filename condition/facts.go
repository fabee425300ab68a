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

import "os"

// Virtualization classifies the detected virtualization/container
// technology, mirroring systemd's Virtualization enum.
type Virtualization int

const (
	VirtNone Virtualization = iota
	VirtKVM
	VirtQEMU
	VirtVMware
	VirtVirtualBox
	VirtMicrosoft
	VirtXen
	VirtOtherVM
	VirtDocker
	VirtLXC
	VirtSystemdNspawn
	VirtOtherContainer
)

func (v Virtualization) IsVM() bool {
	switch v {
	case VirtKVM, VirtQEMU, VirtVMware, VirtVirtualBox, VirtMicrosoft, VirtXen, VirtOtherVM:
		return true
	default:
		return false
	}
}

func (v Virtualization) IsContainer() bool {
	switch v {
	case VirtDocker, VirtLXC, VirtSystemdNspawn, VirtOtherContainer:
		return true
	default:
		return false
	}
}

func (v Virtualization) String() string {
	switch v {
	case VirtNone:
		return "none"
	case VirtKVM:
		return "kvm"
	case VirtQEMU:
		return "qemu"
	case VirtVMware:
		return "vmware"
	case VirtVirtualBox:
		return "oracle"
	case VirtMicrosoft:
		return "microsoft"
	case VirtXen:
		return "xen"
	case VirtOtherVM:
		return "vm-other"
	case VirtDocker:
		return "docker"
	case VirtLXC:
		return "lxc"
	case VirtSystemdNspawn:
		return "systemd-nspawn"
	case VirtOtherContainer:
		return "container-other"
	default:
		return "unknown"
	}
}

// CGroupMask is a bitmask of supported/required cgroup controllers.
type CGroupMask uint32

const (
	CGroupMaskCPU CGroupMask = 1 << iota
	CGroupMaskIO
	CGroupMaskMemory
	CGroupMaskPIDs
)

// PressureWindow selects which PSI rolling average to read.
type PressureWindow int

const (
	Pressure10Sec PressureWindow = iota
	Pressure1Min
	Pressure5Min
)

// Pressure holds the three PSI rolling averages, as percentages scaled
// by 100 (i.e. a raw kernel value of "4.20" becomes 420), matching the
// kernel's two-decimal-digit fixed point percentages.
type Pressure struct {
	Avg10  uint32
	Avg60  uint32
	Avg300 uint32
}

func (p *Pressure) Window(w PressureWindow) uint32 {
	switch w {
	case Pressure10Sec:
		return p.Avg10
	case Pressure1Min:
		return p.Avg60
	default:
		return p.Avg300
	}
}

// TPM2Support is a bitmask describing how TPM2 support was detected.
type TPM2Support int

const (
	TPM2SupportNone     TPM2Support = 0
	TPM2SupportDriver   TPM2Support = 1 << 0
	TPM2SupportFirmware TPM2Support = 1 << 1
)

// has reports whether all bits in want are set in s.
func (s TPM2Support) has(want TPM2Support) bool { return s&want == want }

// Facts is the full set of abstract host-fact providers the core
// calls out to. Every method corresponds to one of the injected
// providers listed in spec section 6; production code gets a Facts
// implementation from the hostfacts package, tests supply a fake.
type Facts interface {
	// ReadVirtualFile reads one of the kernel's tiny pseudo-files
	// (sysfs/procfs) in full.
	ReadVirtualFile(path string) ([]byte, error)

	ProcCmdline() (string, error)
	UnameRelease() (string, error)
	UnameMachine() (string, error)
	NativeArchitecture() string

	PhysicalMemory() (uint64, error)
	CPUsInAffinityMask() (int, error)
	CPUFlags() (map[string]bool, error)

	DetectVirtualization() (Virtualization, error)
	RunningInUserNS() (bool, error)

	CgroupAllUnified() (bool, error)
	CgroupMaskSupported() (CGroupMask, error)
	CgroupMaskFromString(s string) (CGroupMask, bool)
	CgroupSlicePath(slice string) (string, error)
	CgroupOwnRootScope() (string, error)
	CgroupControllerPath(slicePath, controller string) (string, error)
	ReadResourcePressure(path string, full bool) (*Pressure, error)

	ParseOSRelease(key string) (string, bool)

	CredentialsDir() (string, bool)
	EncryptedCredentialsDir() (string, bool)

	IsEFIBoot() bool
	IsEFISecureBoot() bool
	TPM2Support() TPM2Support

	SecurityModuleEnabled(name string) bool

	CapabilityFromName(name string) (int, bool)
	CapabilityBoundingSet() (uint64, error)

	CurrentUID() uint32
	CurrentEUID() uint32
	Getpid() int
	Username() (string, error)
	LookupUID(name string) (uint32, bool)
	LookupGID(name string) (uint32, bool)
	InGID(gid uint32) (bool, error)
	InGroupName(name string) (bool, error)

	OnACPower() (bool, error)

	PathIsReadOnlyFS(path string) (bool, error)
	PathIsMountPoint(path string) (bool, error)
	PathIsEncrypted(path string) (bool, error)
	IsDir(path string) (bool, error)
	IsSymlink(path string) (bool, error)
	GlobExists(pattern string) (bool, error)
	DirIsEmpty(path string) (bool, error)

	// StatPath mirrors os.Stat: it follows symlinks and reports
	// os.IsNotExist-compatible errors, used by the plain-existence and
	// regular-file evaluators.
	StatPath(path string) (os.FileInfo, error)

	Hostname() (string, error)
	MachineID() (string, error)

	InInitrd() bool
	FirstBootOverride() (bool, bool)
	NeedsUpdateOverride() (bool, bool)
}
