package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/dataitem/internal/core/dataitem"
)

var inspectShowData bool

// inspectView inspect 输出，二进制字段为 base64url
type inspectView struct {
	ID            string    `json:"id,omitempty"`
	SignatureType string    `json:"signature_type"`
	Owner         string    `json:"owner"`
	Address       string    `json:"address,omitempty"`
	Target        string    `json:"target,omitempty"`
	Anchor        string    `json:"anchor,omitempty"`
	Tags          []tagView `json:"tags"`
	DataSize      int64     `json:"data_size"`
	Data          string    `json:"data,omitempty"`
	Valid         bool      `json:"valid"`
}

type tagView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// inspectCmd 查看数据项字段
var inspectCmd = &cobra.Command{
	Use:   "inspect <item-file>",
	Short: "查看数据项字段",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := inspect(service.Open(args[0]))
		if err != nil {
			return err
		}

		rows := [][]string{
			{"id", view.ID},
			{"signature_type", view.SignatureType},
			{"owner", abbreviate(view.Owner)},
			{"address", view.Address},
			{"target", view.Target},
			{"anchor", view.Anchor},
			{"data_size", fmt.Sprint(view.DataSize)},
			{"valid", fmt.Sprint(view.Valid)},
		}
		for _, tag := range view.Tags {
			rows = append(rows, []string{"tag:" + tag.Name, tag.Value})
		}
		return printer.Print(view, []string{"字段", "值"}, rows)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectShowData, "data", false, "JSON 输出中包含载荷")
}

func inspect(item *dataitem.FileDataItem) (*inspectView, error) {
	enc := base64.RawURLEncoding
	sigType, err := item.SignatureType()
	if err != nil {
		return nil, err
	}
	owner, err := item.RawOwner()
	if err != nil {
		return nil, err
	}
	target, err := item.RawTarget()
	if err != nil {
		return nil, err
	}
	anchor, err := item.RawAnchor()
	if err != nil {
		return nil, err
	}
	list, err := item.Tags()
	if err != nil {
		return nil, err
	}
	valid, err := item.IsValid()
	if err != nil {
		return nil, err
	}

	view := &inspectView{
		SignatureType: sigType.String(),
		Owner:         enc.EncodeToString(owner),
		Target:        enc.EncodeToString(target),
		Anchor:        enc.EncodeToString(anchor),
		Tags:          make([]tagView, len(list)),
		Address:       service.OwnerAddress(sigType, owner),
		Valid:         valid,
	}
	for i, tag := range list {
		view.Tags[i] = tagView{Name: tag.Name, Value: tag.Value}
	}
	if signed, err := item.IsSigned(); err == nil && signed {
		view.ID, _ = item.ID()
	}

	if view.DataSize, err = item.DataSize(); err != nil {
		return nil, err
	}
	if inspectShowData {
		if view.Data, err = item.Data(); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func abbreviate(s string) string {
	const keep = 16
	if len(s) <= 2*keep {
		return s
	}
	return s[:keep] + "..." + s[len(s)-keep:]
}
