package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/query"
	"github.com/roach88/socialgraph/internal/record"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	Owner     string
	Tag       string
	TagSet    bool
	Tweet     string
	Parent    string
	TopLevel  bool
	Recipient string
	Result    string
	Memcmp    []string
	Limit     uint64
}

// ScanResult is the JSON payload of the scan command.
type ScanResult struct {
	Kind    record.Kind  `json:"kind"`
	Filters []string     `json:"filters"`
	Records []RecordView `json:"records"`
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan <kind>",
		Short: "List records of a kind matching byte-offset filters",
		Long: `List records of a kind in creation order. Every filter is a byte
comparison at a fixed offset of the record layout; all filters must match.

Kinds: tweet, comment, voting, direct_message, user_alias.

--tag matches the tag exactly; --tag "" selects untagged tweets. --tweet applies to comment and voting.
--memcmp takes raw offset:base58 pairs and may repeat.

Examples:
  socialgraph scan tweet --owner <id>
  socialgraph scan tweet --tag veganism --limit 10
  socialgraph scan comment --tweet <addr> --top-level
  socialgraph scan voting --tweet <addr> --result like
  socialgraph scan direct_message --memcmp 40:<base58>`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TagSet = cmd.Flags().Changed("tag")
			return runScan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "owner identity (any kind)")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "exact tweet tag")
	cmd.Flags().StringVar(&opts.Tweet, "tweet", "", "tweet address (comment, voting)")
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "parent comment address")
	cmd.Flags().BoolVar(&opts.TopLevel, "top-level", false, "only comments without a parent")
	cmd.Flags().StringVar(&opts.Recipient, "recipient", "", "direct message recipient")
	cmd.Flags().StringVar(&opts.Result, "result", "", "voting result (like|none|dislike)")
	cmd.Flags().StringArrayVar(&opts.Memcmp, "memcmp", nil, "raw predicate offset:base58 (repeatable)")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 0, "maximum records to list (0 for all)")

	return cmd
}

// ParseMemcmp parses an offset:base58 predicate.
func ParseMemcmp(s string) (query.Memcmp, error) {
	off, data, ok := strings.Cut(s, ":")
	if !ok {
		return query.Memcmp{}, fmt.Errorf("memcmp %q: want offset:base58", s)
	}
	offset, err := strconv.Atoi(off)
	if err != nil {
		return query.Memcmp{}, fmt.Errorf("memcmp %q: offset: %w", s, err)
	}
	b, err := base58.Decode(data)
	if err != nil {
		return query.Memcmp{}, fmt.Errorf("memcmp %q: bytes: %w", s, err)
	}
	return query.Memcmp{Offset: offset, Bytes: b}, nil
}

// predicates turns the filter flags into memcmp predicates for kind.
func (o *ScanOptions) predicates(kind record.Kind) ([]query.Memcmp, error) {
	var preds []query.Memcmp

	if o.Owner != "" {
		id, err := ir.ParseIdentity(o.Owner)
		if err != nil {
			return nil, fmt.Errorf("--owner: %w", err)
		}
		preds = append(preds, query.Owner(id))
	}

	if o.Tag != "" || o.TagSet {
		if kind != record.KindTweet {
			return nil, fmt.Errorf("--tag applies to tweet, not %s", kind)
		}
		preds = append(preds, query.TweetTag(o.Tag))
	}

	if o.Tweet != "" {
		tweet, err := ir.ParseAddress(o.Tweet)
		if err != nil {
			return nil, fmt.Errorf("--tweet: %w", err)
		}
		switch kind {
		case record.KindComment:
			preds = append(preds, query.CommentTweet(tweet))
		case record.KindVoting:
			preds = append(preds, query.VotingTweet(tweet))
		default:
			return nil, fmt.Errorf("--tweet applies to comment and voting, not %s", kind)
		}
	}

	if o.Parent != "" || o.TopLevel {
		if kind != record.KindComment {
			return nil, fmt.Errorf("--parent and --top-level apply to comment, not %s", kind)
		}
		if o.Parent != "" && o.TopLevel {
			return nil, errors.New("--parent and --top-level are exclusive")
		}
		if o.TopLevel {
			preds = append(preds, query.TopLevelComment())
		} else {
			parent, err := ir.ParseAddress(o.Parent)
			if err != nil {
				return nil, fmt.Errorf("--parent: %w", err)
			}
			preds = append(preds, query.CommentParent(parent))
		}
	}

	if o.Recipient != "" {
		if kind != record.KindDirectMessage {
			return nil, fmt.Errorf("--recipient applies to direct_message, not %s", kind)
		}
		id, err := ir.ParseIdentity(o.Recipient)
		if err != nil {
			return nil, fmt.Errorf("--recipient: %w", err)
		}
		preds = append(preds, query.Recipient(id))
	}

	if o.Result != "" {
		if kind != record.KindVoting {
			return nil, fmt.Errorf("--result applies to voting, not %s", kind)
		}
		r, err := ir.ParseVotingResult(o.Result)
		if err != nil {
			return nil, fmt.Errorf("--result: %w", err)
		}
		preds = append(preds, query.VotingResult(r))
	}

	for _, raw := range o.Memcmp {
		p, err := ParseMemcmp(raw)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func runScan(opts *ScanOptions, arg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	kind, err := record.ParseKind(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid kind", err)
	}
	preds, err := opts.predicates(kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := engine.New(st, opts.engineOptions()...).ScanN(ctx, kind, opts.Limit, preds...)
	if err != nil {
		if errors.Is(err, query.ErrInvalidPredicate) {
			return WrapExitError(ExitCommandError, "invalid filter", err)
		}
		return WrapExitError(ExitCommandError, "scan failed", err)
	}

	result := ScanResult{
		Kind:    kind,
		Filters: make([]string, 0, len(preds)),
		Records: make([]RecordView, 0, len(entries)),
	}
	for _, p := range preds {
		result.Filters = append(result.Filters, p.String())
	}
	for _, e := range entries {
		result.Records = append(result.Records, RecordView{Address: e.Address, Kind: kind, Record: e.Record})
	}

	if out.JSON() {
		return out.Success(result)
	}

	out.VerboseLog("filters: %v", result.Filters)
	if len(result.Records) == 0 {
		fmt.Fprintf(out.Writer, "No %s records found.\n", kind)
		return nil
	}
	for _, v := range result.Records {
		if err := writeRecordText(out.Writer, v); err != nil {
			return err
		}
	}
	fmt.Fprintf(out.Writer, "%d %s record(s)\n", len(result.Records), kind)
	return nil
}
