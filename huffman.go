package w2vpin

// sentinelCount stands in for +infinity when comparing internal-node
// frequencies against leaf frequencies during tree construction.
const sentinelCount = 1e15

// BuildHuffmanTree assigns a per-word Huffman code and path to every
// surviving record in v, which must already be sorted descending by
// count (SortAndPrune). It runs in O(V) using the standard two-queue
// merge: one cursor walks the leaves (already sorted, so the smallest
// counts sit at the high end of [0,V)) right-to-left, the other walks
// freshly created internal nodes left-to-right starting at V.
func BuildHuffmanTree(v *Vocabulary) {
	n := len(v.words)
	if n < 2 {
		return
	}

	count := make([]int64, n*2+1)
	binary := make([]uint8, n*2+1)
	parent := make([]int32, n*2+1)

	for i := 0; i < n; i++ {
		count[i] = v.words[i].Count
	}
	for i := n; i < n*2; i++ {
		count[i] = sentinelCount
	}

	pos1 := n - 1
	pos2 := n
	var min1i, min2i int

	for a := 0; a < n-1; a++ {
		if pos1 >= 0 && count[pos1] < count[pos2] {
			min1i = pos1
			pos1--
		} else {
			min1i = pos2
			pos2++
		}
		if pos1 >= 0 && count[pos1] < count[pos2] {
			min2i = pos1
			pos1--
		} else {
			min2i = pos2
			pos2++
		}
		count[n+a] = count[min1i] + count[min2i]
		parent[min1i] = int32(n + a)
		parent[min2i] = int32(n + a)
		binary[min2i] = 1
	}

	code := make([]uint8, 0, MaxCodeLength)
	point := make([]int32, 0, MaxCodeLength)
	root := int32(n*2 - 2)
	for a := 0; a < n; a++ {
		code = code[:0]
		point = point[:0]
		b := int32(a)
		for {
			code = append(code, binary[b])
			point = append(point, b)
			b = parent[b]
			if b == root {
				break
			}
		}
		wordCode := make([]uint8, len(code))
		wordPoint := make([]int32, len(code)+1)
		wordPoint[0] = int32(n) - 2
		for i, bit := range code {
			wordCode[len(code)-1-i] = bit
			wordPoint[len(code)-i] = point[i] - int32(n)
		}
		v.words[a].Code = wordCode
		v.words[a].Point = wordPoint
	}
}
