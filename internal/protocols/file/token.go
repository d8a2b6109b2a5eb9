package file

import "math/bits"

// IoTokenSize is the in-memory size of an IoToken on this platform: four
// pointer-width fields.
//
//	Offset  Size  Field
//	0       ptr   Event
//	1*ptr   ptr   Status
//	2*ptr   ptr   BufferSize
//	3*ptr   ptr   Buffer
const IoTokenSize = 4 * bits.UintSize / 8
