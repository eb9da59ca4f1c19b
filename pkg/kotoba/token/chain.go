package token

// None is the index used for a missing link.
const None = -1

// State records whether a node has absorbed anything yet.
type State uint8

const (
	// Bare nodes have absorbed nothing; their category alone decides
	// whether they may extend.
	Bare State = iota
	// Extended nodes absorbed at least one follower and stay extendable.
	Extended
)

type node struct {
	tok      Token
	prev     int
	next     int
	subs     []int
	state    State
	absorbed bool
}

// Chain is a doubly linked sequence of tokens stored in an arena. Links are
// indices into the arena, so absorbing a node only reassigns indices.
//
// Nodes are never removed from the arena; an absorbed node keeps its slot,
// loses both links and is reachable only through its owner's subtokens.
type Chain struct {
	nodes []node
	head  int
}

// NewChain links toks in order. SubTokens already present on the inputs are
// ignored; every node starts Bare.
func NewChain(toks []Token) *Chain {
	c := &Chain{nodes: make([]node, len(toks)), head: None}
	for i, t := range toks {
		t.SubTokens = nil
		c.nodes[i] = node{tok: t, prev: i - 1, next: i + 1}
	}
	if len(toks) > 0 {
		c.head = 0
		c.nodes[len(toks)-1].next = None
	}
	return c
}

// Head returns the first live node, or None for an empty chain.
func (c *Chain) Head() int { return c.head }

// Next returns the node following i in the live chain.
func (c *Chain) Next(i int) int { return c.nodes[i].next }

// Prev returns the node preceding i in the live chain.
func (c *Chain) Prev(i int) int { return c.nodes[i].prev }

// Token returns the token stored at i, without its subtokens.
func (c *Chain) Token(i int) Token { return c.nodes[i].tok }

// State reports whether i is Bare or Extended.
func (c *Chain) State(i int) State { return c.nodes[i].state }

// Absorbed reports whether i was moved into another node.
func (c *Chain) Absorbed(i int) bool { return c.nodes[i].absorbed }

// SubCount returns how many nodes i has absorbed.
func (c *Chain) SubCount(i int) int { return len(c.nodes[i].subs) }

// Absorb moves victim, which must directly follow owner in the live chain,
// into owner's subtokens. It reports false and changes nothing when the pair
// is not adjacent, when either side was already absorbed, or when victim has
// absorbed something itself.
func (c *Chain) Absorb(owner, victim int) bool {
	if owner == None || victim == None || c.nodes[owner].next != victim {
		return false
	}
	o, v := &c.nodes[owner], &c.nodes[victim]
	if o.absorbed || v.absorbed || len(v.subs) > 0 {
		return false
	}

	n := v.next
	o.next = n
	if n != None {
		c.nodes[n].prev = owner
	}
	v.prev, v.next = None, None
	v.absorbed = true
	o.subs = append(o.subs, victim)
	o.state = Extended
	return true
}

// Len counts the live nodes.
func (c *Chain) Len() int {
	n := 0
	for i := c.head; i != None; i = c.nodes[i].next {
		n++
	}
	return n
}

// Tokens materializes the live chain in order, each token carrying copies of
// the tokens it absorbed.
func (c *Chain) Tokens() []Token {
	out := make([]Token, 0, len(c.nodes))
	for i := c.head; i != None; i = c.nodes[i].next {
		t := c.nodes[i].tok
		if subs := c.nodes[i].subs; len(subs) > 0 {
			t.SubTokens = make([]Token, len(subs))
			for j, s := range subs {
				t.SubTokens[j] = c.nodes[s].tok
			}
		}
		out = append(out, t)
	}
	return out
}
