package mem

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/mem"

	db "mmbench/debug"
)

// Amount of memory, in bytes.
type Tmem uint64

// Memory available for new allocations without swapping.
func GetAvailableMem() (Tmem, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return Tmem(vm.Available), nil
}

// CheckAlloc fails if sz bytes exceed the available memory.
func CheckAlloc(sz Tmem) error {
	avail, err := GetAvailableMem()
	if err != nil {
		db.DPrintf(db.MATRIX, "Can't read available memory: %v", err)
		return nil
	}
	if sz > avail {
		return fmt.Errorf("out of memory: need %v, available %v",
			humanize.IBytes(uint64(sz)), humanize.IBytes(uint64(avail)))
	}
	return nil
}
