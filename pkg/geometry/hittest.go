package geometry

// BoxAt returns the topmost box containing p, or nil when no box is hit.
// Slice order is z-order with the most recently appended box on top, so
// iteration runs back to front and the first match wins.
func BoxAt(p Point, boxes []Box) Box {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].Contains(p) {
			return boxes[i]
		}
	}
	return nil
}
