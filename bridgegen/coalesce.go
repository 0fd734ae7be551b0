package bridgegen

import "strings"

// Coalesce merges each buffer pointer with the indy_u32_t *_len parameter
// that follows it into one ByteBuffer parameter. Parameters that are already
// merged pass through, so Coalesce(Coalesce(p)) == Coalesce(p).
func Coalesce(function string, params []Param) ([]Param, error) {
	out := make([]Param, 0, len(params))
	for i := 0; i < len(params); i++ {
		p := params[i]
		if !p.Pending {
			out = append(out, p)
			continue
		}
		if i+1 >= len(params) || !isLength(params[i+1]) {
			return nil, &GenError{Function: function, Param: p.Name, Err: ErrUnpairedBuffer}
		}
		p.Pending = false
		p.LenName = params[i+1].Name
		out = append(out, p)
		i++
	}
	return out, nil
}

func isLength(p Param) bool {
	return spelling(p.Raw) == "indy_u32_t" && strings.HasSuffix(p.Name, "_len")
}
