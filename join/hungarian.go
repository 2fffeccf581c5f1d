package join

// hungarianMaxWeight solves the square assignment problem: given an n x n
// integer weight matrix w, find a permutation perm of [0,n) maximizing
// sum(w[i][perm[i]]). It is an auditable O(n^3) Hungarian/Jonker-Volgenant
// implementation kept in place of a graph library dependency, adapted from
// the standard shortest-augmenting-path-with-potentials formulation
// (minimization on -w, then negated back).
//
// n == 0 returns an empty permutation.
func hungarianMaxWeight(w [][]int64) []int {
	n := len(w)
	if n == 0 {
		return nil
	}

	const inf = int64(1) << 62

	// Classical 1-indexed formulation (u, v potentials; p, way bookkeeping)
	// operating on minimization of cost c[i][j] = -w[i][j].
	u := make([]int64, n+1)
	v := make([]int64, n+1)
	p := make([]int, n+1) // p[j] = row matched to column j (1-indexed), 0 = unmatched
	way := make([]int, n+1)

	cost := func(i, j int) int64 { return -w[i-1][j-1] }

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minV := make([]int64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minV[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0, j) - u[i0] - v[j]
				if cur < minV[j] {
					minV[j] = cur
					way[j] = j0
				}
				if minV[j] < delta {
					delta = minV[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minV[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	perm := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			perm[p[j]-1] = j - 1
		}
	}
	return perm
}
