package pipeline

// HazardUnit detects data hazards between the instruction in ID and the
// instructions currently in ID/EX and EX/MEM. There is no forwarding
// path in this pipeline: any producer that has not yet reached
// writeback forces a stall, even when the consumer only needs the
// value after the producer's own writeback would have supplied it.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectStall reports whether the instruction about to enter ID (with
// source registers rs and rt) must stall because a pending write in
// ID/EX or EX/MEM has not yet reached the register file. Register 0 is
// never a hazard source, since writes to it are always discarded.
func (h *HazardUnit) DetectStall(idex *IDEXRegister, exmem *EXMEMRegister, rs, rt uint8) bool {
	if idex.Valid && idex.RegWrite && idex.DestReg != 0 {
		if idex.DestReg == rs || idex.DestReg == rt {
			return true
		}
	}
	if exmem.Valid && exmem.RegWrite && exmem.DestReg != 0 {
		if exmem.DestReg == rs || exmem.DestReg == rt {
			return true
		}
	}
	return false
}
