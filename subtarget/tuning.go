// Completion: 100% - Family tuning bundles complete
package subtarget

// applyFamilyTuning assigns the numeric tuning fields that correlate with a
// microarchitecture as a whole rather than with any one feature. Families
// without an entry keep the global defaults.
func applyFamilyTuning(c *Capabilities, f Family) {
	c.family = f

	switch f {
	case Others:
	case Carmel:
		c.cacheLineSize = 64
	case CortexA35, CortexA55:
	case CortexA53:
		c.prefFunctionLogAlignment = 3
	case CortexA57:
		c.maxInterleaveFactor = 4
		c.prefFunctionLogAlignment = 4
	case CortexA65:
		c.prefFunctionLogAlignment = 3
	case CortexA72, CortexA73, CortexA75, CortexA76, CortexA77, CortexA78, CortexR82, CortexX1:
		c.prefFunctionLogAlignment = 4
	case A64FX:
		c.cacheLineSize = 256
		c.prefFunctionLogAlignment = 3
		c.prefLoopLogAlignment = 2
		c.maxInterleaveFactor = 4
		c.prefetchDistance = 128
		c.minPrefetchStride = 1024
		c.maxPrefetchIterationsAhead = 4
	case AppleA7, AppleA10, AppleA11, AppleA12, AppleA13:
		c.cacheLineSize = 64
		c.prefetchDistance = 280
		c.minPrefetchStride = 2048
		c.maxPrefetchIterationsAhead = 3
	case ExynosM3:
		c.maxInterleaveFactor = 4
		c.maxJumpTableSize = 20
		c.prefFunctionLogAlignment = 5
		c.prefLoopLogAlignment = 4
	case Falkor:
		c.maxInterleaveFactor = 4
		c.minVectorRegisterBitWidth = 128
		c.cacheLineSize = 128
		c.prefetchDistance = 820
		c.minPrefetchStride = 2048
		c.maxPrefetchIterationsAhead = 8
	case Kryo:
		c.maxInterleaveFactor = 4
		c.vectorInsertExtractBaseCost = 2
		c.cacheLineSize = 128
		c.prefetchDistance = 740
		c.minPrefetchStride = 1024
		c.maxPrefetchIterationsAhead = 11
		c.minVectorRegisterBitWidth = 128
	case NeoverseE1:
		c.prefFunctionLogAlignment = 3
	case NeoverseN1, NeoverseV1:
		c.prefFunctionLogAlignment = 4
	case Saphira:
		c.maxInterleaveFactor = 4
		c.minVectorRegisterBitWidth = 128
	case ThunderX2T99:
		c.cacheLineSize = 64
		c.prefFunctionLogAlignment = 3
		c.prefLoopLogAlignment = 2
		c.maxInterleaveFactor = 4
		c.prefetchDistance = 128
		c.minPrefetchStride = 1024
		c.maxPrefetchIterationsAhead = 4
		c.minVectorRegisterBitWidth = 128
	case ThunderX, ThunderXT88, ThunderXT81, ThunderXT83:
		c.cacheLineSize = 128
		c.prefFunctionLogAlignment = 3
		c.prefLoopLogAlignment = 2
		c.minVectorRegisterBitWidth = 128
	case TSV110:
		c.cacheLineSize = 64
		c.prefFunctionLogAlignment = 4
		c.prefLoopLogAlignment = 2
	case ThunderX3T110:
		c.cacheLineSize = 64
		c.prefFunctionLogAlignment = 4
		c.prefLoopLogAlignment = 2
		c.maxInterleaveFactor = 4
		c.prefetchDistance = 128
		c.minPrefetchStride = 1024
		c.maxPrefetchIterationsAhead = 4
		c.minVectorRegisterBitWidth = 128
	}
}
