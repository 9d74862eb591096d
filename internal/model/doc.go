package model

// Package model defines domain data structures used across the bot: media
// descriptors, encoding variants, selection ladders, and the transfer phase
// enum. Structures are immutable once built and safe to copy by value.
