package ir

// MergeMeta unions two metadata payloads. Mapping payloads merge key by
// key with the incoming side winning; any other combination keeps the
// incoming payload when present, the base one otherwise. Neither input is
// mutated.
func MergeMeta(base, in *Node) *Node {
	if in == nil {
		if base == nil {
			return nil
		}
		return base.Clone()
	}
	if base == nil || base.Type != ObjectType || in.Type != ObjectType {
		return in.Clone()
	}
	res := base.Clone()
	for i := range in.Fields {
		key := in.Fields[i].String
		bv := Get(res, key)
		if bv == nil {
			Set(res, key, in.Values[i].Clone())
			continue
		}
		Set(res, key, MergeMeta(bv, in.Values[i]))
	}
	return res
}
